package dummydb

import (
	"context"
	"sort"

	"github.com/pepschool/obshub/core/observation"
)

type observationRepository struct {
	db *observationTable
}

var _ observation.Repository = (*observationRepository)(nil)

func NewObservationRepository(db *DB) observation.Repository {
	return &observationRepository{db: db.observation}
}

func (repo *observationRepository) query() []observation.Observation {
	all := make([]observation.Observation, 0, len(repo.db.table))
	for _, o := range repo.db.table {
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp.After(all[j].Timestamp) })
	return all
}

func (repo *observationRepository) CreateObservation(_ context.Context, obs observation.Observation) (observation.Observation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[obs.ID] = &obs
	return obs, nil
}

func (repo *observationRepository) GetObservationByID(_ context.Context, id string) (observation.Observation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if obs, ok := repo.db.table[id]; ok {
		return *obs, nil
	}
	return observation.Observation{}, observation.ErrNotFound
}

func (repo *observationRepository) QueryAllObservations(_ context.Context) ([]observation.Observation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *observationRepository) QueryObservationsByStudent(_ context.Context, studentID string) ([]observation.Observation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]observation.Observation, 0)
	for _, obs := range repo.query() {
		if obs.StudentID == studentID {
			matches = append(matches, obs)
		}
	}
	return matches, nil
}

func (repo *observationRepository) QueryPendingVoiceObservations(_ context.Context) ([]observation.Observation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]observation.Observation, 0)
	for _, obs := range repo.query() {
		if obs.PendingTranscription() {
			matches = append(matches, obs)
		}
	}
	return matches, nil
}

func (repo *observationRepository) UpdateObservation(_ context.Context, obs observation.Observation) (observation.Observation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[obs.ID]; !ok {
		return observation.Observation{}, observation.ErrNotFound
	}
	repo.db.table[obs.ID] = &obs
	return obs, nil
}

func (repo *observationRepository) DeleteObservation(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return observation.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
