package game

import "fmt"

func (e *Engine) unownedArtifacts() []int {
	var out []int
	for i, a := range e.state.Artifacts {
		if !a.Owned {
			out = append(out, i)
		}
	}
	return out
}

// rollFreeArtifact gives a small chance of uncovering an artifact for free.
func (e *Engine) rollFreeArtifact() {
	pool := e.unownedArtifacts()
	if len(pool) == 0 || e.rand.Float64() >= ArtifactFindChance {
		return
	}
	a := &e.state.Artifacts[pool[e.rand.Intn(len(pool))]]
	a.Owned = true
	e.notify(fmt.Sprintf("Found artifact: %s!", a.Name), ToastSuccess)
}

// DiscoverArtifact spends DiscoverCost gems to unlock a random artifact the
// player does not own yet.
func (e *Engine) DiscoverArtifact() (Artifact, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pool := e.unownedArtifacts()
	if len(pool) == 0 {
		return Artifact{}, ErrNothingToDiscover
	}
	if e.state.Gems < DiscoverCost {
		return Artifact{}, ErrInsufficientGems
	}
	e.state.Gems -= DiscoverCost
	a := &e.state.Artifacts[pool[e.rand.Intn(len(pool))]]
	a.Owned = true
	e.notify(fmt.Sprintf("Discovered %s (%s)!", a.Name, a.Rarity), ToastSuccess)
	return *a, nil
}
