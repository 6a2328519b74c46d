package v1

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// ConnectionResult is the outcome of one service check.
type ConnectionResult struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// VerifyResponse is the response for GET /verify.
type VerifyResponse struct {
	Connections []ConnectionResult `json:"connections"`
	Checked     int                `json:"checked"`
	Passed      int                `json:"passed"`
}

const verifyTimeout = 10 * time.Second

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), verifyTimeout)
	defer cancel()

	resp := VerifyResponse{
		Connections: make([]ConnectionResult, len(s.deps.Services)),
		Checked:     len(s.deps.Services),
	}

	var wg sync.WaitGroup
	for i, svc := range s.deps.Services {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := svc.Check(ctx)
			result := ConnectionResult{
				Name:    svc.Name,
				OK:      err == nil,
				Latency: time.Since(start).Round(time.Millisecond).String(),
			}
			if err != nil {
				result.Error = err.Error()
			}
			resp.Connections[i] = result
		}()
	}
	wg.Wait()

	for _, c := range resp.Connections {
		if c.OK {
			resp.Passed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
