package microservices

import "time"

func minutes(v float64) time.Duration {
	return time.Duration(v * float64(time.Minute))
}

func hours(v float64) time.Duration {
	return time.Duration(v * float64(time.Hour))
}
