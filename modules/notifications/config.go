package notifications

// Config holds the control-surface configuration.
// CronSecret authenticates the externally-triggered batch endpoint; it is
// required so a deployment cannot accidentally expose an open scan trigger.
type Config struct {
	CronSecret string `env:"CRON_SECRET,required"`
}
