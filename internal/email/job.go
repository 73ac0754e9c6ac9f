package email

// TaskTypeDeliver is the asynq task type for queued email delivery.
const TaskTypeDeliver = "email:deliver"

// DeliveryJob is the payload of a queued email. The body is plain text;
// headers are assembled by the worker at send time.
type DeliveryJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
