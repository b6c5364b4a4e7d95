package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier(t *testing.T) {
	t.Run("posts the submission as JSON", func(t *testing.T) {
		var got Submission
		var contentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType = r.Header.Get("Content-Type")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		n := NewWebhookNotifier(srv.URL)
		n.SubmissionCreated(Submission{
			ActionLabel: "requisition",
			UserName:    "somchai",
			TotalQty:    32,
			ReasonLabel: "event",
			GroupID:     "g-123",
		})

		assert.Equal(t, "application/json", contentType)
		assert.Equal(t, "somchai", got.UserName)
		assert.Equal(t, 32, got.TotalQty)
		assert.Equal(t, "g-123", got.GroupID)
	})

	t.Run("server error does not panic or propagate", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		NewWebhookNotifier(srv.URL).SubmissionCreated(Submission{ActionLabel: "borrow"})
	})

	t.Run("empty URL only logs", func(t *testing.T) {
		NewWebhookNotifier("").SubmissionCreated(Submission{ActionLabel: "requisition", UserName: "somchai"})
	})
}
