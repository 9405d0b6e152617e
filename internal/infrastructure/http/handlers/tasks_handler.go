package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/leaguebase/leaguebase/internal/application/ports"
)

// TasksHandler exposes the manual trigger for background tasks. Submission
// is acknowledged with a job id; execution is asynchronous and its outcome is
// never reported here.
type TasksHandler struct {
	enqueuer ports.TaskEnqueuer
	log      zerolog.Logger
}

func NewTasksHandler(enqueuer ports.TaskEnqueuer, log zerolog.Logger) *TasksHandler {
	return &TasksHandler{enqueuer: enqueuer, log: log}
}

// TriggerMembershipSync enqueues a membership status sync run. Takes no body;
// every call enqueues independently.
func (h *TasksHandler) TriggerMembershipSync(w http.ResponseWriter, r *http.Request) {
	job, err := h.enqueuer.EnqueueMembershipSync(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("manual membership sync enqueue failed")
		writeErr(w, http.StatusInternalServerError, "failed to enqueue sync task")
		return
	}
	h.log.Info().Str("job_id", job.ID).Msg("manual membership sync enqueued")
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"job_id": job.ID,
	})
}
