package agent

import (
	"errors"
	"fmt"
	"slices"
)

var ErrAlreadyMember = errors.New("phenotype already in population")

// Population is an ordered collection of one species. Pointer identity is the
// stable handle of a member: Snapshot hands out handles that stay valid after
// removals, and Contains tells whether a handle is still live.
type Population struct {
	species Species
	members []*Phenotype
	live    map[*Phenotype]struct{}
}

func NewPopulation(species Species, members ...*Phenotype) (*Population, error) {
	p := &Population{
		species: species,
		members: make([]*Phenotype, 0, len(members)),
		live:    make(map[*Phenotype]struct{}, len(members)),
	}
	for _, m := range members {
		if err := p.Add(m); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Population) Species() Species {
	return p.species
}

func (p *Population) Add(ph *Phenotype) error {
	if ph == nil {
		return errors.New("phenotype is required")
	}
	if got := ph.Species(); got != p.species {
		return fmt.Errorf("%w: %s in %s population", ErrSpeciesMismatch, got, p.species)
	}
	if _, ok := p.live[ph]; ok {
		return ErrAlreadyMember
	}
	p.members = append(p.members, ph)
	p.live[ph] = struct{}{}
	return nil
}

// Remove deletes ph keeping the order of the remaining members.
func (p *Population) Remove(ph *Phenotype) bool {
	if _, ok := p.live[ph]; !ok {
		return false
	}
	delete(p.live, ph)
	if i := slices.Index(p.members, ph); i >= 0 {
		p.members = slices.Delete(p.members, i, i+1)
	}
	return true
}

func (p *Population) Contains(ph *Phenotype) bool {
	_, ok := p.live[ph]
	return ok
}

func (p *Population) Len() int {
	return len(p.members)
}

func (p *Population) At(i int) *Phenotype {
	return p.members[i]
}

// Snapshot copies the current member list.
func (p *Population) Snapshot() []*Phenotype {
	return slices.Clone(p.members)
}

func (p *Population) TotalFitness() float64 {
	total := 0.0
	for _, m := range p.members {
		total += m.Fitness
	}
	return total
}

// AverageFitness is zero for an empty population.
func (p *Population) AverageFitness() float64 {
	if len(p.members) == 0 {
		return 0
	}
	return p.TotalFitness() / float64(len(p.members))
}

// Best returns the first member with the highest fitness.
func (p *Population) Best() (*Phenotype, bool) {
	if len(p.members) == 0 {
		return nil, false
	}
	best := p.members[0]
	for _, m := range p.members[1:] {
		if m.Fitness > best.Fitness {
			best = m
		}
	}
	return best, true
}

func (p *Population) MeanStrength() float64 {
	if len(p.members) == 0 {
		return 0
	}
	total := 0.0
	for _, m := range p.members {
		total += m.Strength
	}
	return total / float64(len(p.members))
}
