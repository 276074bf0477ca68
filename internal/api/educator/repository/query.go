package educatorRepository

const (
	querySchemaSQLite = `
		CREATE TABLE IF NOT EXISTS detections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			student_id TEXT NOT NULL,
			type TEXT NOT NULL,
			alert_level TEXT,
			message TEXT,
			details TEXT,
			evidence_key TEXT,
			timestamp DATETIME NOT NULL
		)
	`

	querySchemaPostgres = `
		CREATE TABLE IF NOT EXISTS detections (
			id BIGSERIAL PRIMARY KEY,
			student_id TEXT NOT NULL,
			type TEXT NOT NULL,
			alert_level TEXT,
			message TEXT,
			details TEXT,
			evidence_key TEXT,
			timestamp TIMESTAMPTZ NOT NULL
		)
	`

	queryTimestampIndex = `
		CREATE INDEX IF NOT EXISTS idx_detections_timestamp ON detections (timestamp DESC)
	`

	queryInsertAlert = `
		INSERT INTO detections (
			student_id,
			type,
			alert_level,
			message,
			details,
			evidence_key,
			timestamp
		) VALUES (
			:student_id,
			:type,
			:alert_level,
			:message,
			:details,
			:evidence_key,
			:timestamp
		)
		RETURNING id
	`

	queryListRecentAlerts = `
		SELECT
			id,
			student_id,
			type,
			alert_level,
			message,
			details,
			evidence_key,
			timestamp
		FROM detections
		ORDER BY timestamp DESC, id DESC
		LIMIT :limit
	`
)
