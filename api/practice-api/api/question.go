// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package practice_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListQuestions returns the question catalog with per-question attempt
// counts.
//
// @Router /api/questions [get]
func (pApi *PracticeApi) ListQuestions(c *gin.Context) {
	questions, err := pApi.questions.List(c.Request.Context())
	if err != nil {
		pApi.logger.Errorf("list questions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unable to list questions"})
		return
	}
	c.JSON(http.StatusOK, questions)
}
