package jobs

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBookingExpiry frees tools and trucks whose rentals have lapsed.
	TaskBookingExpiry = "bookings:expire"
	// TaskSessionCleanup prunes expired session audit records.
	TaskSessionCleanup = "sessions:cleanup"
)
