package incidents

// Repo stores incidents on the API side.
type Repo interface {
	Upsert(incident *Incident) error
	Get(id string) (*Incident, error)
	Delete(id string) error
	// List returns matching incidents newest first. An empty reporterID matches every reporter.
	List(reporterID string, filter Filter) ([]*Incident, error)
}

// Matches reports whether i passes the filter's status, type and since conditions. Limit is not applied.
func (f Filter) Matches(i *Incident) bool {
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if f.Type != "" && i.Type != f.Type {
		return false
	}
	if !f.Since.IsZero() && i.CreatedAt.Before(f.Since) {
		return false
	}
	return true
}
