package wrapped

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rakshitranga/canvas-wrapped/internal/canvas"
)

// Metrics is the wrapped result bundle. Every field is computed
// independently over the same filtered submission set; nil means no
// qualifying data for that metric.
type Metrics struct {
	LivingOnEdge       *EdgeResult            `json:"livingOnEdge"`
	MostProcrastinated *ProcrastinationResult `json:"mostProcrastinated"`
	MostPunctual       *PunctualityResult     `json:"mostPunctual"`
	MostCompleted      *CompletedResult       `json:"mostCompleted"`
	GradeAverage       *GradeAverageResult    `json:"gradeAverage"`
	AssignmentMarathon *MarathonResult        `json:"assignmentMarathon"`
	LateNightWarrior   *LateNightResult       `json:"lateNightWarrior"`
	FastestSubmission  *FastestResult         `json:"fastestSubmission"`
	ModelStudent       *ModelStudentResult    `json:"modelStudent"`
	ComebackArc        *ComebackResult        `json:"comebackArc"`
	LowestGrade        *LowestGradeResult     `json:"lowestGrade"`
}

type EdgeExample struct {
	Assignment   string `json:"assignment"`
	Course       string `json:"course"`
	MinutesEarly int    `json:"minutesEarly"`
}

type EdgeResult struct {
	Count    int           `json:"count"`
	Caption  string        `json:"caption"`
	Examples []EdgeExample `json:"examples"`
}

type ProcrastinationResult struct {
	Course      string `json:"course"`
	AvgLateness int    `json:"avgLateness"`
	LateCount   int    `json:"lateCount"`
	Caption     string `json:"caption"`
}

type PunctualityResult struct {
	Course      string `json:"course"`
	OnTimeRate  int    `json:"onTimeRate"`
	OnTimeCount int    `json:"onTimeCount"`
	Caption     string `json:"caption"`
}

type CompletedResult struct {
	Count   int    `json:"count"`
	Caption string `json:"caption"`
}

type GradeAverageResult struct {
	Average int    `json:"average"`
	Count   int    `json:"count"`
	Caption string `json:"caption"`
}

type MarathonResult struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Caption string `json:"caption"`
}

type LateNightResult struct {
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
	Caption    string `json:"caption"`
}

type FastestResult struct {
	Assignment string `json:"assignment"`
	Course     string `json:"course"`
	Minutes    int    `json:"minutes"`
	Caption    string `json:"caption"`
}

type ModelStudentResult struct {
	IsModel   bool   `json:"isModel"`
	LateCount int    `json:"lateCount"`
	Caption   string `json:"caption"`
}

type ComebackResult struct {
	Improvement int    `json:"improvement"`
	StartGrade  int    `json:"startGrade"`
	EndGrade    int    `json:"endGrade"`
	Caption     string `json:"caption"`
}

type LowestGradeResult struct {
	Name    string `json:"name"`
	Course  string `json:"course"`
	Percent int    `json:"percent"`
	Caption string `json:"caption"`
}

// Engine computes the metric bundle. It is pure per invocation; the
// location only anchors the two local-time metrics.
type Engine struct {
	loc *time.Location
}

func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{loc: loc}
}

func (e *Engine) Build(col *canvas.Collection) Metrics {
	subs := col.Submissions
	groups := groupByCourse(col.Courses, subs)
	graded := gradedSubset(subs)

	return Metrics{
		LivingOnEdge:       livingOnEdge(subs),
		MostProcrastinated: mostProcrastinated(groups),
		MostPunctual:       mostPunctual(groups),
		MostCompleted:      mostCompleted(subs),
		GradeAverage:       gradeAverage(graded),
		AssignmentMarathon: assignmentMarathon(subs, e.loc),
		LateNightWarrior:   lateNightWarrior(subs, e.loc),
		FastestSubmission:  fastestSubmission(subs),
		ModelStudent:       modelStudent(subs),
		ComebackArc:        comebackArc(graded),
		LowestGrade:        lowestGrade(graded),
	}
}

type courseGroup struct {
	code        string
	submissions []canvas.Submission
}

// groupByCourse partitions the submission set once, in course iteration
// order, so every per-course metric shares the same grouping and the
// same first-encountered tie-break order.
func groupByCourse(courses []canvas.Course, subs []canvas.Submission) []courseGroup {
	byID := make(map[int64]int, len(courses))
	groups := make([]courseGroup, 0, len(courses))
	for _, course := range courses {
		byID[course.ID] = len(groups)
		groups = append(groups, courseGroup{code: course.CourseCode})
	}
	for _, sub := range subs {
		if i, ok := byID[sub.CourseID]; ok {
			groups[i].submissions = append(groups[i].submissions, sub)
		}
	}
	return groups
}

// gradedSubset keeps submissions with a score and positive points
// possible, the only ones a percentage can be computed for.
func gradedSubset(subs []canvas.Submission) []canvas.Submission {
	graded := make([]canvas.Submission, 0, len(subs))
	for _, sub := range subs {
		if sub.Score != nil && sub.PointsPossible != nil && *sub.PointsPossible > 0 {
			graded = append(graded, sub)
		}
	}
	return graded
}

func minutesBetween(a, b time.Time) float64 {
	return math.Abs(a.Sub(b).Minutes())
}

func round(f float64) int {
	return int(math.Round(f))
}

func isLate(sub canvas.Submission) bool {
	return sub.DueAt != nil && sub.SubmittedAt.After(*sub.DueAt)
}

func isOnTime(sub canvas.Submission) bool {
	return sub.DueAt != nil && !sub.SubmittedAt.After(*sub.DueAt)
}

func sortBySubmittedAt(subs []canvas.Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.Before(subs[j].SubmittedAt)
	})
}

func gradePercent(sub canvas.Submission) float64 {
	return *sub.Score / *sub.PointsPossible * 100
}

func livingOnEdge(subs []canvas.Submission) *EdgeResult {
	result := &EdgeResult{
		Caption:  "You weren't late, just dangerously close. 🔥",
		Examples: []EdgeExample{},
	}
	for _, sub := range subs {
		// On time but within ten minutes of the deadline. The on-time
		// guard matters: ten minutes past the deadline is just late.
		if !isOnTime(sub) || minutesBetween(*sub.DueAt, sub.SubmittedAt) > 10 {
			continue
		}
		result.Count++
		if len(result.Examples) < 3 {
			result.Examples = append(result.Examples, EdgeExample{
				Assignment:   sub.AssignmentName,
				Course:       sub.CourseCode,
				MinutesEarly: round(minutesBetween(*sub.DueAt, sub.SubmittedAt)),
			})
		}
	}
	return result
}

func mostProcrastinated(groups []courseGroup) *ProcrastinationResult {
	var result *ProcrastinationResult
	var worstAvg float64
	for _, group := range groups {
		var total float64
		var lateCount int
		for _, sub := range group.submissions {
			if isLate(sub) {
				total += minutesBetween(sub.SubmittedAt, *sub.DueAt)
				lateCount++
			}
		}
		if lateCount == 0 {
			continue
		}
		avg := total / float64(lateCount)
		if result == nil || avg > worstAvg {
			worstAvg = avg
			result = &ProcrastinationResult{
				Course:      group.code,
				AvgLateness: round(avg),
				LateCount:   lateCount,
				Caption:     "Deadlines? You saw them as a challenge. ⌛",
			}
		}
	}
	return result
}

func mostPunctual(groups []courseGroup) *PunctualityResult {
	var result *PunctualityResult
	var bestRate float64
	for _, group := range groups {
		if len(group.submissions) == 0 {
			continue
		}
		var onTimeCount int
		for _, sub := range group.submissions {
			if isOnTime(sub) {
				onTimeCount++
			}
		}
		// Strict > keeps the first course encountered on ties.
		rate := float64(onTimeCount) / float64(len(group.submissions))
		if result == nil || rate > bestRate {
			bestRate = rate
			result = &PunctualityResult{
				Course:      group.code,
				OnTimeRate:  round(rate * 100),
				OnTimeCount: onTimeCount,
				Caption:     "You submitted like rent — early and on time. 🕊️",
			}
		}
	}
	return result
}

func mostCompleted(subs []canvas.Submission) *CompletedResult {
	return &CompletedResult{
		Count:   len(subs),
		Caption: fmt.Sprintf("You submitted %d things. That's wild. 📤", len(subs)),
	}
}

func gradeAverage(graded []canvas.Submission) *GradeAverageResult {
	if len(graded) == 0 {
		return nil
	}
	var total float64
	for _, sub := range graded {
		total += gradePercent(sub)
	}
	avg := total / float64(len(graded))

	letter := "effort"
	switch {
	case avg >= 90:
		letter = "A"
	case avg >= 80:
		letter = "B"
	case avg >= 70:
		letter = "C"
	}
	return &GradeAverageResult{
		Average: round(avg),
		Count:   len(graded),
		Caption: fmt.Sprintf("Solid %s energy. Mostly. 📊", letter),
	}
}

func assignmentMarathon(subs []canvas.Submission, loc *time.Location) *MarathonResult {
	counts := make(map[string]int, len(subs))
	order := make([]string, 0, len(subs))
	for _, sub := range subs {
		day := sub.SubmittedAt.In(loc).Format("2006-01-02")
		if counts[day] == 0 {
			order = append(order, day)
		}
		counts[day]++
	}

	var result *MarathonResult
	for _, day := range order {
		if result == nil || counts[day] > result.Count {
			result = &MarathonResult{
				Date:    day,
				Count:   counts[day],
				Caption: fmt.Sprintf("You submitted %d things on %s. Are you alive? 🏃", counts[day], day),
			}
		}
	}
	return result
}

func lateNightWarrior(subs []canvas.Submission, loc *time.Location) *LateNightResult {
	var count int
	for _, sub := range subs {
		local := sub.SubmittedAt.In(loc)
		if local.Hour() == 23 && local.Minute() >= 50 {
			count++
		}
	}
	percentage := 0
	if len(subs) > 0 {
		percentage = round(float64(count) / float64(len(subs)) * 100)
	}
	return &LateNightResult{
		Count:      count,
		Percentage: percentage,
		Caption:    "Why do you love 11:59 PM so much? ⏰",
	}
}

func fastestSubmission(subs []canvas.Submission) *FastestResult {
	var result *FastestResult
	var bestMinutes float64
	for _, sub := range subs {
		if sub.UnlockAt == nil || !sub.SubmittedAt.After(*sub.UnlockAt) {
			continue
		}
		minutes := minutesBetween(sub.SubmittedAt, *sub.UnlockAt)
		if result == nil || minutes < bestMinutes {
			bestMinutes = minutes
			result = &FastestResult{
				Assignment: sub.AssignmentName,
				Course:     sub.CourseCode,
				Minutes:    round(minutes),
				Caption:    fmt.Sprintf("You submitted %d minutes after the assignment opened. ⚡", round(minutes)),
			}
		}
	}
	return result
}

func modelStudent(subs []canvas.Submission) *ModelStudentResult {
	var lateCount int
	for _, sub := range subs {
		if isLate(sub) {
			lateCount++
		}
	}
	caption := fmt.Sprintf("Only %d late submissions. Not bad! 📚", lateCount)
	if lateCount == 0 {
		caption = "You didn't miss anything. Are you okay?? 😇"
	}
	return &ModelStudentResult{
		IsModel:   lateCount == 0 && len(subs) > 5,
		LateCount: lateCount,
		Caption:   caption,
	}
}

func comebackArc(graded []canvas.Submission) *ComebackResult {
	if len(graded) < 5 {
		return nil
	}

	ordered := make([]canvas.Submission, len(graded))
	copy(ordered, graded)
	sortBySubmittedAt(ordered)

	// Count-based quartiles, not calendar ones.
	quarter := len(ordered) / 4
	var firstTotal, lastTotal float64
	for _, sub := range ordered[:quarter] {
		firstTotal += gradePercent(sub)
	}
	for _, sub := range ordered[len(ordered)-quarter:] {
		lastTotal += gradePercent(sub)
	}
	firstAvg := firstTotal / float64(quarter)
	lastAvg := lastTotal / float64(quarter)

	caption := "Consistent performer. Steady as they go! 📊"
	if lastAvg > firstAvg {
		caption = fmt.Sprintf("Started from a %d. Finished at a %d. Character growth. 📈", round(firstAvg), round(lastAvg))
	}
	return &ComebackResult{
		Improvement: round(lastAvg - firstAvg),
		StartGrade:  round(firstAvg),
		EndGrade:    round(lastAvg),
		Caption:     caption,
	}
}

func lowestGrade(graded []canvas.Submission) *LowestGradeResult {
	var result *LowestGradeResult
	var lowest float64
	for _, sub := range graded {
		// Strict < keeps the earliest submission on equal ratios.
		ratio := *sub.Score / *sub.PointsPossible
		if result == nil || ratio < lowest {
			lowest = ratio
			result = &LowestGradeResult{
				Name:    sub.AssignmentName,
				Course:  sub.CourseCode,
				Percent: round(ratio * 100),
				Caption: fmt.Sprintf("Lowest grade: %d%% on %q", round(ratio*100), sub.AssignmentName),
			}
		}
	}
	return result
}
