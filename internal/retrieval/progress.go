package retrieval

// Progress receives notifications while chunks are scored.
// Implementations only observe; they cannot stop or alter scoring.
type Progress interface {
	Advance(n int)
	Complete(message string)
}

// NopProgress discards all progress notifications.
type NopProgress struct{}

func (NopProgress) Advance(int)     {}
func (NopProgress) Complete(string) {}
