package quiz

// Stats summarizes the attempt history of one quiz.
type Stats struct {
	QuizID    string
	Total     int // number of questions in the quiz
	Attempts  int
	BestScore int
	LastScore int
}

// Attempted reports whether the quiz has been taken at least once.
func (s Stats) Attempted() bool {
	return s.Attempts > 0
}

// StatsFor computes the stats of q from the attempt log. Attempts are
// expected in insertion order, so the last matching attempt is the latest.
func StatsFor(q *Quiz, attempts []Attempt) Stats {
	st := Stats{QuizID: q.ID, Total: len(q.Questions)}
	for _, a := range attempts {
		if a.QuizID != q.ID {
			continue
		}
		if st.Attempts == 0 || a.Score > st.BestScore {
			st.BestScore = a.Score
		}
		st.Attempts++
		st.LastScore = a.Score
	}
	return st
}

// Recent returns up to n quizzes, newest first.
func Recent(quizzes []Quiz, n int) []Quiz {
	if n <= 0 {
		return nil
	}
	start := len(quizzes) - n
	if start < 0 {
		start = 0
	}
	out := make([]Quiz, 0, len(quizzes)-start)
	for i := len(quizzes) - 1; i >= start; i-- {
		out = append(out, quizzes[i])
	}
	return out
}

// HistoryEntry pairs a quiz with its attempt stats.
type HistoryEntry struct {
	Quiz  Quiz
	Stats Stats
}

// History pairs every quiz with its stats, newest quiz first.
func History(quizzes []Quiz, attempts []Attempt) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(quizzes))
	for _, q := range Recent(quizzes, len(quizzes)) {
		entries = append(entries, HistoryEntry{Quiz: q, Stats: StatsFor(&q, attempts)})
	}
	return entries
}
