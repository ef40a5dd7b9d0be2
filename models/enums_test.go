package models_test

import (
	"encoding/json"
	"testing"

	"github.com/mmsoftworks/campusfees_backend/models"
)

func TestPayFrequencyUnmarshal(t *testing.T) {
	cases := []struct {
		input   string
		want    models.PayFrequency
		wantErr bool
	}{
		{`"Semester"`, models.PayFrequencySemester, false},
		{`"Annual"`, models.PayFrequencyAnnual, false},
		{`"Monthly"`, models.PayFrequencyMonthly, false},
		{`"One-time"`, models.PayFrequencyOneTime, false},
		{`"Weekly"`, "", true},
		{`"semester"`, "", true},
		{`""`, "", true},
		{`123`, "", true},
	}
	for _, tc := range cases {
		var f models.PayFrequency
		err := json.Unmarshal([]byte(tc.input), &f)
		if (err != nil) != tc.wantErr {
			t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if err == nil && f != tc.want {
			t.Fatalf("Unmarshal(%s) = %q, want %q", tc.input, f, tc.want)
		}
	}
}

func TestPaymentModeUnmarshal(t *testing.T) {
	cases := []struct {
		input   string
		want    models.PaymentMode
		wantErr bool
	}{
		{`"Cash"`, models.PaymentModeCash, false},
		{`"UPI Digital"`, models.PaymentModeUpi, false},
		{`"Bank Transfer"`, models.PaymentModeBankTransfer, false},
		{`"Cheque"`, models.PaymentModeCheque, false},
		{`"Card"`, "", true},
		{`"cash"`, "", true},
	}
	for _, tc := range cases {
		var m models.PaymentMode
		err := json.Unmarshal([]byte(tc.input), &m)
		if (err != nil) != tc.wantErr {
			t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if err == nil && m != tc.want {
			t.Fatalf("Unmarshal(%s) = %q, want %q", tc.input, m, tc.want)
		}
	}
}
