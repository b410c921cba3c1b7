package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	tt := []struct {
		name string
		p    []Pinger
		code int
		body string
	}{
		{
			name: "ok",
			p: []Pinger{
				SubjectPinger("api", func(ctx context.Context) error { return nil }),
			},
			code: http.StatusOK,
			body: `{"version":"dev","commit":"undefined","errors":{}}`,
		},
		{
			name: "failed",
			p: []Pinger{
				SubjectPinger("api", func(ctx context.Context) error { return nil }),
				SubjectPinger("sessions", func(ctx context.Context) error { return errors.New("down") }),
			},
			code: http.StatusServiceUnavailable,
			body: `{"version":"dev","commit":"undefined","errors":{"sessions":"down"}}`,
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			r, err := http.NewRequest(http.MethodGet, "/health", nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			Handler(time.Second, tc.p...).ServeHTTP(w, r)

			assert.Equal(t, tc.code, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, "dev-undefined", GetVersion())
}
