package domain

import (
	"fmt"
	"time"
)

// DateLayout es el formato de fecha de expiración aceptado (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseExpiration parsea una fecha de expiración YYYY-MM-DD.
func ParseExpiration(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("domain.ParseExpiration: %q: %w", s, ErrInvalidConfig)
	}
	return t, nil
}

// DaysUntil devuelve los días naturales entre la fecha de now y expiration.
// Solo cuentan las fechas de calendario, no la hora. Puede ser negativo.
func DaysUntil(now, expiration time.Time) int {
	from := civilDate(now)
	to := civilDate(expiration)
	return int(to.Sub(from).Hours() / 24)
}

// TradingDaysUntil cuenta los días de lunes a viernes en (now, expiration].
// No conoce festivos. Devuelve 0 si expiration no es posterior a now; quien
// necesite distinguir una fecha vencida debe mirar DaysUntil.
func TradingDaysUntil(now, expiration time.Time) int {
	from := civilDate(now)
	to := civilDate(expiration)
	days := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
