package schedule

import (
	"sort"
	"time"

	"github.com/imobflow/imob-crm-api/internal/models"
)

type AvailabilityInput struct {
	UserID      uint
	Date        time.Time
	DurationMin int
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Window é um intervalo ocupado na agenda do corretor
// (compromisso ou visita já marcada).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && end.After(w.Start)
}

// BuildSlots monta os horários livres do dia a partir do expediente e das
// janelas ocupadas. As janelas não precisam vir ordenadas.
func BuildSlots(wh *models.WorkingHours, date time.Time, slotMin int, busy []Window) []TimeSlot {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return []TimeSlot{}
	}
	if slotMin <= 0 {
		slotMin = 60
	}

	loc := date.Location()

	parseHM := func(hm string) time.Time {
		t, _ := time.Parse("15:04", hm)
		return time.Date(
			date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	dayStart := parseHM(wh.StartTime)
	dayEnd := parseHM(wh.EndTime)

	hasLunch := wh.LunchStart != "" && wh.LunchEnd != ""
	var lunchStart, lunchEnd time.Time
	if hasLunch {
		lunchStart = parseHM(wh.LunchStart)
		lunchEnd = parseHM(wh.LunchEnd)
	}

	sorted := make([]Window, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	slotDuration := time.Duration(slotMin) * time.Minute
	slots := []TimeSlot{}

	busyIdx := 0

	for cur := dayStart; cur.Add(slotDuration).Before(dayEnd) || cur.Add(slotDuration).Equal(dayEnd); cur = cur.Add(slotDuration) {

		slotStart := cur
		slotEnd := cur.Add(slotDuration)

		// almoço
		if hasLunch && slotStart.Before(lunchEnd) && slotEnd.After(lunchStart) {
			continue
		}

		// avança janelas já encerradas
		for busyIdx < len(sorted) && sorted[busyIdx].End.Before(slotStart) {
			busyIdx++
		}

		conflict := false
		for i := busyIdx; i < len(sorted); i++ {
			if !sorted[i].Start.Before(slotEnd) {
				break
			}
			if sorted[i].Overlaps(slotStart, slotEnd) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	return slots
}
