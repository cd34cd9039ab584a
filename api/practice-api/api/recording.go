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
)

// UploadRecording accepts one multipart recording and creates its attempt
// row. The video field streams straight to disk; a body over the size cap
// is rejected with 413 and leaves nothing behind.
//
// @Router /api/recordings [post]
func (pApi *PracticeApi) UploadRecording(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.PostForm("question_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "question_id is required"})
		return
	}
	timerSetting, err := strconv.Atoi(c.DefaultPostForm("timer_setting", "120"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "timer_setting must be an integer"})
		return
	}
	durationSeconds, err := strconv.ParseFloat(c.DefaultPostForm("duration_seconds", "0"), 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "duration_seconds must be a number"})
		return
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "video file is required"})
		return
	}
	video, err := fileHeader.Open()
	if err != nil {
		pApi.logger.Errorf("open uploaded video: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unable to read upload"})
		return
	}
	defer video.Close()

	attempt, err := pApi.recording.SaveRecording(c.Request.Context(), internal_services.RecordingUpload{
		QuestionID:      questionID,
		TimerSetting:    timerSetting,
		DurationSeconds: durationSeconds,
		Video:           video,
	})
	if err != nil {
		if errors.Is(err, internal_services.ErrUploadTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "File too large"})
			return
		}
		pApi.logger.Errorf("save recording: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unable to store recording"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempt_id":     attempt.Id,
		"attempt_number": attempt.AttemptNumber,
	})
}

// ListRecordings returns every stored attempt, newest first.
//
// @Router /api/recordings [get]
func (pApi *PracticeApi) ListRecordings(c *gin.Context) {
	attempts, err := pApi.recording.ListRecordings(c.Request.Context())
	if err != nil {
		pApi.logger.Errorf("list recordings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unable to list recordings"})
		return
	}
	c.JSON(http.StatusOK, attempts)
}
