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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"sleepbench/pkg/errors"
)

type fixedStatus Status

func (s fixedStatus) Status() Status {
	return Status(s)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sleepbench",
		Name:      "test_total",
		Help:      "test counter",
	})
	registry.MustRegister(counter)
	counter.Add(7)

	router := gin.New()
	RegisterRoutes(router, fixedStatus{
		RunID:     "run-1",
		Runtime:   "timer",
		TaskCount: 10,
		Phase:     "joining",
		Spawned:   10,
		Completed: 4,
	}, registry)
	return router
}

func TestGetStatus(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/status", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "run-1", resp.RunID)
	require.Equal(t, "timer", resp.Runtime)
	require.Equal(t, "joining", resp.Phase)
	require.EqualValues(t, 4, resp.Completed)
}

func TestGetMetrics(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "sleepbench_test_total 7")
}

// SetLogLevel changes the process wide logger, so these cases run serially.
func TestSetLogLevel(t *testing.T) {
	original := log.GetLevel()
	defer log.SetLevel(original)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedLevel  zapcore.Level
		errorContains  string
	}{
		{
			name:           "debug",
			body:           `{"log_level": "debug"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  zapcore.DebugLevel,
		},
		{
			name:           "upper case warn",
			body:           `{"log_level": "WARN"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  zapcore.WarnLevel,
		},
		{
			name:           "unknown level keeps current",
			body:           `{"log_level": "chatty"}`,
			expectedStatus: http.StatusBadRequest,
			expectedLevel:  zapcore.WarnLevel,
			errorContains:  "invalid log level",
		},
		{
			name:           "invalid json",
			body:           `log_level=debug`,
			expectedStatus: http.StatusBadRequest,
			expectedLevel:  zapcore.WarnLevel,
			errorContains:  "invalid log level",
		},
	}

	router := newTestRouter(t)
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/log", bytes.NewReader([]byte(tt.body)))
		router.ServeHTTP(w, req)

		require.Equal(t, tt.expectedStatus, w.Code, tt.name)
		require.Equal(t, tt.expectedLevel, log.GetLevel(), tt.name)
		if tt.errorContains != "" {
			var resp HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), tt.name)
			require.Contains(t, resp.Error, tt.errorContains, tt.name)
			require.Equal(t, string(errors.ErrInvalidLogLevel.RFCCode()), resp.Code, tt.name)
		}
	}
}

func TestServerRunAndShutdown(t *testing.T) {
	t.Parallel()

	srv, err := NewServer("127.0.0.1:0", fixedStatus{RunID: "live"}, prometheus.NewRegistry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + srv.Addr() + "/status")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Contains(t, string(body), `"run_id":"live"`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("status server did not stop")
	}
}

func TestNewServerBadAddr(t *testing.T) {
	t.Parallel()

	_, err := NewServer("256.0.0.1:-1", fixedStatus{}, prometheus.NewRegistry())
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrStatusServer))
}
