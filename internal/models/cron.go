package models

// CronJob is one entry of cron-jobs.json.
type CronJob struct {
	ID       string     `json:"id"`
	Schedule string     `json:"schedule"`
	Enabled  bool       `json:"enabled"`
	Text     string     `json:"text"`
	NextRun  *Timestamp `json:"next_run,omitempty"`
	LastRun  *Timestamp `json:"last_run,omitempty"`
}

// CronJobsFile is the document stored in cron-jobs.json.
type CronJobsFile struct {
	Jobs []CronJob `json:"jobs"`
}
