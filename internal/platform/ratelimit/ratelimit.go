package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

const DefaultPerMinute = 60

// Bucket es un token bucket global (no particionado por usuario).
// Capacidad = perMinute, recarga continua a perMinute/60 tokens por segundo.
type Bucket struct {
	lim *rate.Limiter
	now func() time.Time
}

func New(perMinute int) *Bucket {
	if perMinute <= 0 {
		perMinute = DefaultPerMinute
	}
	return &Bucket{
		lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		now: time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (b *Bucket) WithClock(now func() time.Time) *Bucket {
	b.now = now
	return b
}

// TryConsume consume 1 token si hay disponible. No bloquea.
func (b *Bucket) TryConsume() bool {
	return b.lim.AllowN(b.now(), 1)
}

// RetryAfter estima cuánto falta para el próximo token.
func (b *Bucket) RetryAfter() time.Duration {
	now := b.now()
	r := b.lim.ReserveN(now, 1)
	if !r.OK() {
		return time.Minute
	}
	d := r.DelayFrom(now)
	r.CancelAt(now)
	return d
}
