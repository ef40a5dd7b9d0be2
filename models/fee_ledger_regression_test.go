package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/models"
	"github.com/mmsoftworks/campusfees_backend/models/reports"
	"github.com/mmsoftworks/campusfees_backend/utils"
	"github.com/shopspring/decimal"
)

// End-to-end fee ledger lifecycle against real MySQL + Redis:
// enrollment, payments, derived balances, duplicate external
// transaction ids (sequential and concurrent), and orphan tolerance
// after deletes.
//
// Run (requires Docker): INTEGRATION_TESTS=1 go test ./models -run FeeLedgerLifecycle -v
func TestFeeLedgerLifecycle(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "campusfees_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	branch, err := models.CreateBranch(ctx, &models.NewBranch{Name: "Main Campus"})
	if err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	semester, err := models.CreateSemester(ctx, &models.NewSemester{Name: "Semester 1"})
	if err != nil {
		t.Fatalf("CreateSemester: %v", err)
	}
	session, err := models.CreateAcademicSession(ctx, &models.NewAcademicSession{Name: "2026-27"})
	if err != nil {
		t.Fatalf("CreateAcademicSession: %v", err)
	}

	plan, err := models.CreateFeePlan(ctx, &models.NewFeePlan{
		Name:      "BSc Semester 1",
		Frequency: models.PayFrequencySemester,
		Heads: []models.NewFeeHead{
			{Name: "Tuition", Amount: decimal.NewFromInt(50000)},
			{Name: "Library", Amount: decimal.NewFromInt(5000)},
		},
	})
	if err != nil {
		t.Fatalf("CreateFeePlan: %v", err)
	}
	if !plan.TotalAmount.Equal(decimal.NewFromInt(55000)) {
		t.Fatalf("plan total = %s, want 55000", plan.TotalAmount)
	}

	student, err := models.EnrollStudent(ctx, &models.NewStudent{
		Name:       "Asha Verma",
		RollNo:     "R-101",
		PlanId:     plan.ID,
		BranchId:   branch.ID,
		SemesterId: semester.ID,
		SessionId:  session.ID,
	})
	if err != nil {
		t.Fatalf("EnrollStudent: %v", err)
	}

	// Duplicate roll number must be rejected while the enrollment lives.
	if _, err := models.EnrollStudent(ctx, &models.NewStudent{
		Name:       "Rohan Gupta",
		RollNo:     "R-101",
		PlanId:     plan.ID,
		BranchId:   branch.ID,
		SemesterId: semester.ID,
		SessionId:  session.ID,
	}); err == nil {
		t.Fatal("expected duplicate roll_no to be rejected")
	} else {
		var dup *utils.DuplicateError
		if !errors.As(err, &dup) {
			t.Fatalf("expected DuplicateError for roll_no, got %v", err)
		}
	}

	// Roll numbers compare exactly; a case variant is a different student.
	if _, err := models.EnrollStudent(ctx, &models.NewStudent{
		Name:       "Rohan Gupta",
		RollNo:     "r-101",
		PlanId:     plan.ID,
		BranchId:   branch.ID,
		SemesterId: semester.ID,
		SessionId:  session.ID,
	}); err != nil {
		t.Fatalf("EnrollStudent with case-variant roll_no: %v", err)
	}

	// First installment.
	if _, err := models.CreateTransaction(ctx, &models.NewTransaction{
		StudentId:             student.ID,
		Amount:                decimal.NewFromInt(20000),
		PaymentMode:           models.PaymentModeUpi,
		ExternalTransactionId: "UTR-1",
	}); err != nil {
		t.Fatalf("CreateTransaction(UTR-1): %v", err)
	}

	ledgerRow := func(rollNo string) *reports.LedgerRow {
		t.Helper()
		rows, err := reports.GetLedger(ctx)
		if err != nil {
			t.Fatalf("GetLedger: %v", err)
		}
		for _, r := range rows {
			if r.RollNo == rollNo {
				return r
			}
		}
		return nil
	}

	row := ledgerRow("R-101")
	if row == nil {
		t.Fatal("ledger row for R-101 missing")
	}
	if !row.Balance.Equal(decimal.NewFromInt(35000)) {
		t.Fatalf("balance after first payment = %s, want 35000", row.Balance)
	}

	// Same external id again must fail with the specific duplicate error.
	_, err = models.CreateTransaction(ctx, &models.NewTransaction{
		StudentId:             student.ID,
		Amount:                decimal.NewFromInt(20000),
		PaymentMode:           models.PaymentModeUpi,
		ExternalTransactionId: "UTR-1",
	})
	var dupTx *utils.DuplicateTransactionError
	if !errors.As(err, &dupTx) {
		t.Fatalf("expected DuplicateTransactionError, got %v", err)
	}

	// Cash payments carry no external id; any number of them may coexist.
	for i := 0; i < 2; i++ {
		if _, err := models.CreateTransaction(ctx, &models.NewTransaction{
			StudentId:   student.ID,
			Amount:      decimal.NewFromInt(20000),
			PaymentMode: models.PaymentModeCash,
		}); err != nil {
			t.Fatalf("CreateTransaction(cash %d): %v", i, err)
		}
	}

	// Overpayment is allowed and shows as a negative balance.
	row = ledgerRow("R-101")
	if !row.Balance.Equal(decimal.NewFromInt(-5000)) {
		t.Fatalf("balance after overpayment = %s, want -5000", row.Balance)
	}

	// Concurrent payments racing on one external id: exactly one wins.
	const racers = 5
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = models.CreateTransaction(ctx, &models.NewTransaction{
				StudentId:             student.ID,
				Amount:                decimal.NewFromInt(1000),
				PaymentMode:           models.PaymentModeBankTransfer,
				ExternalTransactionId: "UTR-RACE",
			})
		}(i)
	}
	wg.Wait()
	successes := 0
	for i, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var dt *utils.DuplicateTransactionError
		if !errors.As(err, &dt) {
			t.Fatalf("racer %d: expected DuplicateTransactionError, got %v", i, err)
		}
	}
	if successes != 1 {
		t.Fatalf("concurrent duplicate txid: %d successes, want exactly 1", successes)
	}

	// Payment count so far: UTR-1 + 2 cash + 1 race winner.
	transactions, err := models.GetTransactions(ctx, &models.TransactionFilter{StudentId: student.ID})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(transactions) != 4 {
		t.Fatalf("transaction count = %d, want 4", len(transactions))
	}

	// Deleting the plan zeroes the derived due but keeps the student.
	if _, err := models.DeleteFeePlan(ctx, plan.ID); err != nil {
		t.Fatalf("DeleteFeePlan: %v", err)
	}
	row = ledgerRow("R-101")
	if !row.TotalDue.Equal(decimal.Zero) {
		t.Fatalf("total due after plan delete = %s, want 0", row.TotalDue)
	}
	if row.PlanName != nil {
		t.Fatalf("plan name after plan delete = %q, want absent", *row.PlanName)
	}

	// Deleting the student keeps the payment history as orphans.
	if _, err := models.DeleteStudent(ctx, student.ID); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if ledgerRow("R-101") != nil {
		t.Fatal("deleted student must leave the ledger")
	}
	orphans, err := models.GetTransactions(ctx, &models.TransactionFilter{StudentId: student.ID})
	if err != nil {
		t.Fatalf("GetTransactions(orphans): %v", err)
	}
	if len(orphans) != 4 {
		t.Fatalf("orphan transaction count = %d, want 4", len(orphans))
	}
	for _, tr := range orphans {
		if tr.StudentName != nil {
			t.Fatalf("orphan payment %d still resolves a student name", tr.ID)
		}
	}

	// The freed roll number is reusable.
	if _, err := models.EnrollStudent(ctx, &models.NewStudent{
		Name:       "Rohan Gupta",
		RollNo:     "R-101",
		PlanId:     1,
		BranchId:   branch.ID,
		SemesterId: semester.ID,
		SessionId:  session.ID,
	}); err != nil {
		t.Fatalf("re-enroll with freed roll_no: %v", err)
	}

	// Summary totals include orphaned payments (money received is money received).
	summary, err := reports.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if !summary.TotalCollections.Equal(decimal.NewFromInt(61000)) {
		t.Fatalf("total collections = %s, want 61000", summary.TotalCollections)
	}

	// Redis outage: the txid lock is best-effort, so recording a payment
	// with an external id must still succeed on the pre-check + unique
	// index alone.
	if _, err := dockerRun("rm", "-f", redisName); err != nil {
		t.Fatalf("stop redis container: %v", err)
	}
	if _, err := models.CreateTransaction(ctx, &models.NewTransaction{
		StudentId:             student.ID,
		Amount:                decimal.NewFromInt(1000),
		PaymentMode:           models.PaymentModeUpi,
		ExternalTransactionId: "UTR-NO-REDIS",
	}); err != nil {
		t.Fatalf("CreateTransaction with redis down: %v", err)
	}
	_, err = models.CreateTransaction(ctx, &models.NewTransaction{
		StudentId:             student.ID,
		Amount:                decimal.NewFromInt(1000),
		PaymentMode:           models.PaymentModeUpi,
		ExternalTransactionId: "UTR-NO-REDIS",
	})
	if !errors.As(err, &dupTx) {
		t.Fatalf("expected DuplicateTransactionError with redis down, got %v", err)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("campusfees-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("campusfees-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=campusfees_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
