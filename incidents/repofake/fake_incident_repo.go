package fakeincidentrepo

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/jrsteele09/citizen-watch/internal/errors"
)

var _ incidents.Repo = (*FakeIncidentRepo)(nil)

type FakeIncidentRepo struct {
	incidents map[string]*incidents.Incident
	lock      sync.RWMutex
}

func NewFakeIncidentRepo() incidents.Repo {
	return &FakeIncidentRepo{
		incidents: make(map[string]*incidents.Incident),
	}
}

func (r *FakeIncidentRepo) Upsert(incident *incidents.Incident) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if incident.ID == "" {
		incident.ID = uuid.New().String()
	}
	stored := *incident
	r.incidents[incident.ID] = &stored
	return nil
}

func (r *FakeIncidentRepo) Get(id string) (*incidents.Incident, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	stored, ok := r.incidents[id]
	if !ok {
		return nil, errors.ErrIncidentNotFound
	}
	i := *stored
	return &i, nil
}

func (r *FakeIncidentRepo) Delete(id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.incidents[id]; !ok {
		return errors.ErrIncidentNotFound
	}
	delete(r.incidents, id)
	return nil
}

func (r *FakeIncidentRepo) List(reporterID string, filter incidents.Filter) ([]*incidents.Incident, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]*incidents.Incident, 0)
	for _, v := range r.incidents {
		if reporterID != "" && v.ReporterID != reporterID {
			continue
		}
		if !filter.Matches(v) {
			continue
		}
		i := *v
		list = append(list, &i)
	}

	sort.Slice(list, func(a, b int) bool {
		if !list[a].CreatedAt.Equal(list[b].CreatedAt) {
			return list[a].CreatedAt.After(list[b].CreatedAt)
		}
		return list[a].ID < list[b].ID
	})

	if filter.Limit > 0 && len(list) > filter.Limit {
		list = list[:filter.Limit]
	}
	return list, nil
}
