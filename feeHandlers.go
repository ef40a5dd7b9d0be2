package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmsoftworks/campusfees_backend/models"
	"github.com/mmsoftworks/campusfees_backend/utils"
)

func listFeePlansHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := models.GetFeePlans(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": plans})
	}
}

func createFeePlanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewFeePlan
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "name, pay_frequency and heads are required")
			return
		}
		plan, err := models.CreateFeePlan(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": plan})
	}
}

func getFeePlanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		plan, err := models.GetFeePlan(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": plan})
	}
}

func updateFeePlanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewFeePlan
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "name, pay_frequency and heads are required")
			return
		}
		plan, err := models.UpdateFeePlan(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": plan})
	}
}

func deleteFeePlanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		plan, err := models.DeleteFeePlan(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": plan})
	}
}

func listStudentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.StudentFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filters"})
			return
		}
		students, err := models.GetStudents(c.Request.Context(), &filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": students})
	}
}

func enrollStudentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewStudent
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "name, roll_no and plan/branch/semester/session ids are required")
			return
		}
		student, err := models.EnrollStudent(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": student})
	}
}

func getStudentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		student, err := models.GetStudent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": student})
	}
}

func updateStudentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewStudent
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "name, roll_no and plan/branch/semester/session ids are required")
			return
		}
		student, err := models.UpdateStudent(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": student})
	}
}

func deleteStudentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		student, err := models.DeleteStudent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": student})
	}
}

func listTransactionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.TransactionFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filters"})
			return
		}
		transactions, err := models.GetTransactions(c.Request.Context(), &filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": transactions})
	}
}

func createTransactionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewTransaction
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "student_id, amount and payment_mode are required")
			return
		}
		transaction, err := models.CreateTransaction(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"data": transaction, "correlation_id": cid})
	}
}

func getTransactionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		transaction, err := models.GetTransaction(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": transaction})
	}
}
