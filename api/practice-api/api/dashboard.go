// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package practice_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboard aggregates practice activity across all questions.
//
// @Router /api/dashboard [get]
func (pApi *PracticeApi) GetDashboard(c *gin.Context) {
	summary, err := pApi.dashboard.Summary(c.Request.Context())
	if err != nil {
		pApi.logger.Errorf("dashboard summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unable to build dashboard"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Health reports liveness.
//
// @Router /api/health [get]
func (pApi *PracticeApi) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
