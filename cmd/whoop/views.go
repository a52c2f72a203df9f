package main

import (
	"fmt"
	"time"

	"github.com/arvarik/whoop-go/v2/internal/output"
	"github.com/arvarik/whoop-go/v2/whoop"
	"github.com/jedib0t/go-pretty/v6/table"
)

const timeLayout = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatFloat(f *float64, unit string) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%s", *f, unit)
}

func formatMilli(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(time.Minute).String()
}

type profileView whoop.BasicProfile

func (p profileView) Header() table.Row { return output.Fields{}.Header() }

func (p profileView) Rows() []table.Row {
	return output.Fields{
		{Name: "User ID", Value: p.UserID},
		{Name: "Name", Value: p.FirstName + " " + p.LastName},
		{Name: "Email", Value: p.Email},
	}.Rows()
}

type bodyView whoop.BodyMeasurement

func (b bodyView) Header() table.Row { return output.Fields{}.Header() }

func (b bodyView) Rows() []table.Row {
	return output.Fields{
		{Name: "Height", Value: fmt.Sprintf("%.2f m", b.HeightMeter)},
		{Name: "Weight", Value: fmt.Sprintf("%.1f kg", b.WeightKilogram)},
		{Name: "Max heart rate", Value: b.MaxHeartRate},
	}.Rows()
}

type cycleView []whoop.Cycle

func (v cycleView) Header() table.Row {
	return table.Row{"ID", "START", "END", "STRAIN", "KJ", "AVG HR", "MAX HR"}
}

func (v cycleView) Rows() []table.Row {
	rows := make([]table.Row, 0, len(v))
	for _, c := range v {
		end := formatTimePtr(c.End)
		if end == "" {
			end = "in progress"
		}
		row := table.Row{c.ID, formatTime(c.Start), end}
		if c.ScoreState.IsScored() && c.Score != nil {
			row = append(row,
				fmt.Sprintf("%.1f", c.Score.Strain),
				fmt.Sprintf("%.0f", c.Score.Kilojoule),
				c.Score.AverageHeartRate,
				c.Score.MaxHeartRate)
		} else {
			row = append(row, string(c.ScoreState), "", "", "")
		}
		rows = append(rows, row)
	}
	return rows
}

type sleepView []whoop.Sleep

func (v sleepView) Header() table.Row {
	return table.Row{"ID", "CYCLE", "START", "END", "NAP", "IN BED", "PERFORMANCE", "EFFICIENCY"}
}

func (v sleepView) Rows() []table.Row {
	rows := make([]table.Row, 0, len(v))
	for _, s := range v {
		row := table.Row{s.ID, s.CycleID, formatTime(s.Start), formatTime(s.End), s.Nap}
		if s.ScoreState.IsScored() && s.Score != nil {
			row = append(row,
				formatMilli(s.Score.StageSummary.TotalInBedTimeMilli),
				formatFloat(s.Score.SleepPerformancePercentage, "%"),
				formatFloat(s.Score.SleepEfficiencyPercentage, "%"))
		} else {
			row = append(row, string(s.ScoreState), "", "")
		}
		rows = append(rows, row)
	}
	return rows
}

type recoveryView []whoop.Recovery

func (v recoveryView) Header() table.Row {
	return table.Row{"CYCLE", "SLEEP", "RECOVERY", "RHR", "HRV", "SPO2", "SKIN TEMP"}
}

func (v recoveryView) Rows() []table.Row {
	rows := make([]table.Row, 0, len(v))
	for _, r := range v {
		row := table.Row{r.CycleID, r.SleepID}
		if r.ScoreState.IsScored() && r.Score != nil {
			row = append(row,
				fmt.Sprintf("%.0f%%", r.Score.RecoveryScore),
				fmt.Sprintf("%.0f", r.Score.RestingHeartRate),
				fmt.Sprintf("%.1f ms", r.Score.HrvRmssdMilli),
				formatFloat(r.Score.Spo2Percentage, "%"),
				formatFloat(r.Score.SkinTempCelsius, " C"))
		} else {
			row = append(row, string(r.ScoreState), "", "", "", "")
		}
		rows = append(rows, row)
	}
	return rows
}

type workoutView []whoop.Workout

func (v workoutView) Header() table.Row {
	return table.Row{"ID", "SPORT", "START", "DURATION", "STRAIN", "AVG HR", "DISTANCE"}
}

func (v workoutView) Rows() []table.Row {
	rows := make([]table.Row, 0, len(v))
	for _, w := range v {
		row := table.Row{w.ID, w.SportName, formatTime(w.Start), w.End.Sub(w.Start).Round(time.Minute).String()}
		if w.ScoreState.IsScored() && w.Score != nil {
			row = append(row,
				fmt.Sprintf("%.1f", w.Score.Strain),
				w.Score.AverageHeartRate,
				formatFloat(w.Score.DistanceMeter, " m"))
		} else {
			row = append(row, string(w.ScoreState), "", "")
		}
		rows = append(rows, row)
	}
	return rows
}
