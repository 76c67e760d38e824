package models

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo keeps gigs and bands in process memory. Records are cloned on
// the way in and out so callers never share state with the store.
type MemoryRepo struct {
	mu    sync.RWMutex
	gigs  []*Gig
	bands map[uuid.UUID]*Band
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		bands: make(map[uuid.UUID]*Band),
	}
}

func (m *MemoryRepo) ListGigsByBand(ctx context.Context, bandID uuid.UUID) ([]*Gig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Gig, 0)
	for _, g := range m.gigs {
		if g.BandID == bandID {
			out = append(out, g.Clone())
		}
	}
	SortGigsByDate(out)
	return out, nil
}

func (m *MemoryRepo) InsertGig(ctx context.Context, gig *Gig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gigs = append(m.gigs, gig.Clone())
	return nil
}

func (m *MemoryRepo) FindGig(ctx context.Context, bandID, gigID uuid.UUID) (*Gig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(bandID, gigID)
	if i < 0 {
		return nil, ErrNotFound
	}
	return m.gigs[i].Clone(), nil
}

func (m *MemoryRepo) ReplaceGig(ctx context.Context, gig *Gig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(gig.BandID, gig.ID)
	if i < 0 {
		return ErrNotFound
	}
	m.gigs[i] = gig.Clone()
	return nil
}

func (m *MemoryRepo) DeleteGig(ctx context.Context, bandID, gigID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(bandID, gigID)
	if i < 0 {
		return ErrNotFound
	}
	m.gigs = append(m.gigs[:i], m.gigs[i+1:]...)
	return nil
}

// indexOf must be called with mu held.
func (m *MemoryRepo) indexOf(bandID, gigID uuid.UUID) int {
	for i, g := range m.gigs {
		if g.ID == gigID && g.BandID == bandID {
			return i
		}
	}
	return -1
}

func (m *MemoryRepo) CreateBand(ctx context.Context, band *Band) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bands {
		if strings.EqualFold(b.Email, band.Email) {
			return ErrConflict
		}
	}
	c := *band
	m.bands[band.ID] = &c
	return nil
}

func (m *MemoryRepo) FindBandByEmail(ctx context.Context, email string) (*Band, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bands {
		if strings.EqualFold(b.Email, email) {
			c := *b
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) FindBandByID(ctx context.Context, id uuid.UUID) (*Band, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bands[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *b
	return &c, nil
}
