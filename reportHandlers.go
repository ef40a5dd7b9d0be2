package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/models/reports"
	"github.com/mmsoftworks/campusfees_backend/utils"
)

func summaryReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := reports.GetSummary(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": summary})
	}
}

func ledgerReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := reports.GetLedger(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rows})
	}
}

// ledgerExportTokenHandler mints a short-lived token the client appends
// to the export URL as a query parameter.
func ledgerExportTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		staffId, _ := utils.GetStaffIdFromContext(c.Request.Context())
		token, err := utils.ExportTokenGenerate(staffId, "ledger")
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"token": token}})
	}
}

func ledgerExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Accept either a live session or an export token in the query.
		if _, ok := utils.GetStaffIdFromContext(c.Request.Context()); !ok {
			token := strings.TrimSpace(c.Query("token"))
			if token == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			claim, err := utils.ExportTokenValidate(token)
			if err != nil || claim.Report != "ledger" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
		}

		ctx, span := tracer.Start(c.Request.Context(), "ledger-export")
		defer span.End()

		rows, err := reports.GetLedger(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		workbook, err := reports.BuildLedgerWorkbook(rows)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="`+reports.LedgerExportFilename(len(rows))+`"`)
		if err := workbook.Write(c.Writer); err != nil {
			config.LogError(config.GetLogger(), "reportHandlers.go", "ledgerExportHandler", "workbook.Write", nil, err)
		}
	}
}
