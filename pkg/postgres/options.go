package postgres

import "time"

type Option func(*Postgres)

func MaxPoolSize(size int) Option {
	return func(p *Postgres) {
		p.maxPoolSize = size
	}
}

func MinPoolSize(size int) Option {
	return func(p *Postgres) {
		p.minPoolSize = size
	}
}

func ConnAttempts(attempts int) Option {
	return func(p *Postgres) {
		p.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(p *Postgres) {
		p.connTimeout = timeout
	}
}

// HealthCheckPeriod sets how often idle pool connections are pinged.
func HealthCheckPeriod(period time.Duration) Option {
	return func(p *Postgres) {
		p.healthCheckPeriod = period
	}
}
