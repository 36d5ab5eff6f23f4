package instance

import "os"

// GetID identifies the running worker process. Heroku dynos expose DYNO;
// other deployments can set WORKER_ID explicitly.
func GetID() string {
	if id := os.Getenv("WORKER_ID"); id != "" {
		return id
	}
	if dyno := os.Getenv("DYNO"); dyno != "" {
		return dyno
	}
	return "worker-0"
}
