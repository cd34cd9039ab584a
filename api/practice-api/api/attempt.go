// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package practice_api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	internal_entity "github.com/starcoachai/api/practice-api/internal/entity"
	internal_services "github.com/starcoachai/api/practice-api/internal/services"
)

type attemptDetail struct {
	Attempt       *internal_entity.Attempt       `json:"attempt"`
	Transcription *internal_entity.Transcription `json:"transcription,omitempty"`
	Analytics     *internal_entity.Analytics     `json:"analytics,omitempty"`
	Feedback      *internal_entity.Feedback      `json:"feedback,omitempty"`
}

// ListAttempts returns a question's attempts newest-first, each with its
// analysis bundle where one exists.
//
// @Router /api/attempts/:questionId [get]
func (pApi *PracticeApi) ListAttempts(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("questionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "questionId must be an integer"})
		return
	}

	attempts, err := pApi.recording.ListAttemptDetails(c.Request.Context(), questionID)
	if err != nil {
		if errors.Is(err, internal_services.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Question not found"})
			return
		}
		pApi.logger.Errorf("list attempts for question %d: %v", questionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unable to list attempts"})
		return
	}

	details := make([]attemptDetail, 0, len(attempts))
	for i := range attempts {
		a := attempts[i]
		details = append(details, attemptDetail{
			Attempt:       &a,
			Transcription: a.Transcription,
			Analytics:     a.Analytics,
			Feedback:      a.Feedback,
		})
	}
	c.JSON(http.StatusOK, details)
}

// GetProgress returns the derived score history and trend for a question.
//
// @Router /api/attempts/:questionId/progress [get]
func (pApi *PracticeApi) GetProgress(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("questionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "questionId must be an integer"})
		return
	}

	progress, err := pApi.progress.Compute(c.Request.Context(), questionID)
	if err != nil {
		if errors.Is(err, internal_services.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Question not found"})
			return
		}
		pApi.logger.Errorf("compute progress for question %d: %v", questionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unable to compute progress"})
		return
	}
	c.JSON(http.StatusOK, progress)
}
