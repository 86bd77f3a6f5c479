// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"sleepbench/pkg/errors"
	"sleepbench/pkg/logger"
)

// Status is the progress of the running benchmark.
type Status struct {
	RunID     string `json:"run_id"`
	Runtime   string `json:"runtime"`
	TaskCount int    `json:"task_count"`
	Phase     string `json:"phase"`
	Spawned   int64  `json:"spawned"`
	Completed int64  `json:"completed"`
}

// StatusProvider reports the current Status.
type StatusProvider interface {
	Status() Status
}

// LogLevelReq is the request body of POST /api/v1/log.
type LogLevelReq struct {
	Level string `json:"log_level"`
}

// HTTPError is the body of every failed request.
type HTTPError struct {
	Error string `json:"error_msg"`
	Code  string `json:"error_code"`
}

// EmptyResponse is returned by endpoints without a payload.
type EmptyResponse struct{}

// RegisterRoutes installs the status routes on router.
func RegisterRoutes(router *gin.Engine, provider StatusProvider, registry *prometheus.Registry) {
	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, provider.Status())
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.POST("log", SetLogLevel)
}

// SetLogLevel changes the log level dynamically.
func SetLogLevel(c *gin.Context) {
	req := &LogLevelReq{Level: "info"}
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest,
			errors.ErrInvalidLogLevel.GenWithStackByArgs(err.Error()))
		return
	}

	if err := logger.SetLogLevel(req.Level); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	log.Warn("log level changed", zap.String("level", req.Level))
	c.JSON(http.StatusOK, &EmptyResponse{})
}

func writeError(c *gin.Context, status int, err error) {
	code, _ := errors.RFCCode(err)
	c.AbortWithStatusJSON(status, &HTTPError{
		Error: err.Error(),
		Code:  string(code),
	})
}
