package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/models"
	"github.com/mmsoftworks/campusfees_backend/utils"
)

// respondError maps the model error taxonomy onto HTTP statuses. The
// DUPLICATE_TXID string is a wire contract the payment form keys on.
func respondError(c *gin.Context, err error) {
	var dupTx *utils.DuplicateTransactionError
	if errors.As(err, &dupTx) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "DUPLICATE_TXID", "message": dupTx.Error()})
		return
	}
	var dup *utils.DuplicateError
	if errors.As(err, &dup) {
		c.JSON(http.StatusBadRequest, gin.H{"error": dup.Error()})
		return
	}
	var validation *utils.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		return
	}
	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	config.LogError(config.GetLogger(), "handlers.go", "respondError", "unexpected", nil, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// respondBindError answers 400 with per-field tags when the binding
// failure came from validation, or the plain message otherwise.
func respondBindError(c *gin.Context, err error, message string) {
	if fields := utils.ProcessValidationErrors(err); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func paramId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

type loginRequest struct {
	StaffId  string `json:"staff_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err, "staff_id and password are required")
			return
		}
		info, err := models.Login(c.Request.Context(), req.StaffId, req.Password)
		if err != nil {
			var validation *utils.ValidationError
			if errors.As(err, &validation) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": validation.Error()})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": info})
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := models.Logout(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": ok})
	}
}

func getSettingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		org, err := models.GetOrgSettings(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		semesters, err := models.GetSemesters(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		sessions, err := models.GetAcademicSessions(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		branches, err := models.GetBranches(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		staff, err := models.GetAllStaff(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"org":       org,
			"semesters": semesters,
			"sessions":  sessions,
			"branches":  branches,
			"staff":     staff,
		}})
	}
}

func getOrgSettingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := models.GetOrgSettings(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": settings})
	}
}

func upsertOrgSettingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewOrgSettings
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		settings, err := models.UpsertOrgSettings(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": settings})
	}
}

// Catalog endpoints (semester, session, branch) share the same
// create/delete shape, so the handlers take model adapters.

func createCatalogHandler(create func(c *gin.Context) (interface{}, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := create(c)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": result})
	}
}

func deleteCatalogHandler(remove func(ctx context.Context, id int) (interface{}, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		result, err := remove(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": result})
	}
}

func createSemester(c *gin.Context) (interface{}, error) {
	var input models.NewSemester
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, utils.NewValidationError("name is required")
	}
	return models.CreateSemester(c.Request.Context(), &input)
}

func deleteSemester(ctx context.Context, id int) (interface{}, error) {
	return models.DeleteSemester(ctx, id)
}

func createAcademicSession(c *gin.Context) (interface{}, error) {
	var input models.NewAcademicSession
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, utils.NewValidationError("name is required")
	}
	return models.CreateAcademicSession(c.Request.Context(), &input)
}

func deleteAcademicSession(ctx context.Context, id int) (interface{}, error) {
	return models.DeleteAcademicSession(ctx, id)
}

func createBranch(c *gin.Context) (interface{}, error) {
	var input models.NewBranch
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, utils.NewValidationError("name is required")
	}
	return models.CreateBranch(c.Request.Context(), &input)
}

func deleteBranch(ctx context.Context, id int) (interface{}, error) {
	return models.DeleteBranch(ctx, id)
}

func createStaffHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewStaff
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "staff_id, name and password are required")
			return
		}
		staff, err := models.CreateStaff(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		staff.PrepareGive()
		c.JSON(http.StatusOK, gin.H{"data": staff})
	}
}

// Password is optional on update; blank keeps the current hash.
type updateStaffRequest struct {
	StaffId  string `json:"staff_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password"`
}

func updateStaffHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var req updateStaffRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err, "staff_id and name are required")
			return
		}
		input := models.NewStaff{StaffId: req.StaffId, Name: req.Name, Password: req.Password}
		staff, err := models.UpdateStaff(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		staff.PrepareGive()
		c.JSON(http.StatusOK, gin.H{"data": staff})
	}
}

func deleteStaffHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		staff, err := models.DeleteStaff(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		staff.PrepareGive()
		c.JSON(http.StatusOK, gin.H{"data": staff})
	}
}
