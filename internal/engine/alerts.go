package engine

// AlertEvent is one fired threshold crossing, handed back to the scheduler
// for logging and journaling. Audible or visual alerting is the renderer's
// concern, not the engine's.
type AlertEvent struct {
	Code      string
	Name      string
	Direction string // "UP" or "DOWN"
	Price     float64
	Threshold float64
}

// checkAlerts runs the two-state hysteresis machine for both directions
// against a new price, using the previous recorded price as context. A
// threshold fires once per crossing: after firing, the direction stays
// latched until price moves back across the threshold. Both directions can
// fire on one update when alertDown >= alertUp is configured; that is
// accepted as-is.
func (s *SymbolState) checkAlerts(price float64) []AlertEvent {
	var events []AlertEvent
	prev := s.LastPrice

	if s.AlertUp != nil && price >= *s.AlertUp {
		if !s.upFired || (prev != nil && *prev < *s.AlertUp) {
			s.upFired = true
			events = append(events, AlertEvent{
				Code:      s.Code,
				Name:      s.LastName,
				Direction: "UP",
				Price:     price,
				Threshold: *s.AlertUp,
			})
		}
	}
	if s.AlertDown != nil && price <= *s.AlertDown {
		if !s.downFired || (prev != nil && *prev > *s.AlertDown) {
			s.downFired = true
			events = append(events, AlertEvent{
				Code:      s.Code,
				Name:      s.LastName,
				Direction: "DOWN",
				Price:     price,
				Threshold: *s.AlertDown,
			})
		}
	}

	// Back inside the band: allow the next crossing to fire again.
	if s.AlertUp != nil && price < *s.AlertUp {
		s.upFired = false
	}
	if s.AlertDown != nil && price > *s.AlertDown {
		s.downFired = false
	}
	return events
}
