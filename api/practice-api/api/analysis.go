// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package practice_api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	internal_services "github.com/starcoachai/api/practice-api/internal/services"
	practice_client "github.com/starcoachai/pkg/clients/practice"
)

// TriggerAnalysis starts the background analysis pipeline for an attempt.
// Re-triggering an analyzed attempt is a 400.
//
// @Router /api/analyze/:attemptId [post]
func (pApi *PracticeApi) TriggerAnalysis(c *gin.Context) {
	attemptID, err := strconv.ParseUint(c.Param("attemptId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "attemptId must be an integer"})
		return
	}

	if err := pApi.analysis.Trigger(c.Request.Context(), attemptID); err != nil {
		switch {
		case errors.Is(err, internal_services.ErrAttemptNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Attempt not found"})
		case errors.Is(err, internal_services.ErrAlreadyAnalyzed):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Already analyzed"})
		default:
			pApi.logger.Errorf("trigger analysis %d: %v", attemptID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unable to start analysis"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     practice_client.StatusProcessing,
		"attempt_id": attemptID,
	})
}

// AnalysisStatus reports pipeline progress plus whatever sub-records exist
// so far. Clients poll this until status reaches complete.
//
// @Router /api/analyze/:attemptId/status [get]
func (pApi *PracticeApi) AnalysisStatus(c *gin.Context) {
	attemptID, err := strconv.ParseUint(c.Param("attemptId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "attemptId must be an integer"})
		return
	}

	status, err := pApi.analysis.Status(c.Request.Context(), attemptID)
	if err != nil {
		if errors.Is(err, internal_services.ErrAttemptNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Attempt not found"})
			return
		}
		pApi.logger.Errorf("analysis status %d: %v", attemptID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unable to read analysis status"})
		return
	}
	c.JSON(http.StatusOK, status)
}
