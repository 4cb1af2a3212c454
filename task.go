package deadlinks

// Task is a unit of crawl work: one URL discovered on the page Origin, at
// Depth links away from the seed. The seed task has no origin.
type Task struct {
	URL    string
	Origin string
	Depth  int
}

// Attribution returns the page that failures of this task are reported
// against: the origin page, or the URL itself for the seed.
func (t Task) Attribution() string {
	if t.Origin == "" {
		return t.URL
	}
	return t.Origin
}

// Child returns the task for a link found on this task's page.
func (t Task) Child(url string) Task {
	return Task{
		URL:    url,
		Origin: t.URL,
		Depth:  t.Depth + 1,
	}
}
