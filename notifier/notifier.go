package notifier

// Notifier delivers a rendered alert report. Delivery failure is reported to
// the caller but never aborts a pipeline run.
type Notifier interface {
	Notify(subject, htmlBody string) error
}
