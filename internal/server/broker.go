package server

import (
	"encoding/json"
	"sync"
)

// Event is the payload published to SSE subscribers.
type Event struct {
	Type      string `json:"type"`
	TeamID    string `json:"teamId,omitempty"`
	TeamName  string `json:"teamName,omitempty"`
	ClueIndex int    `json:"clueIndex,omitempty"`
	Points    int    `json:"points,omitempty"`
	Bonus     bool   `json:"bonus,omitempty"`
}

const (
	eventGameStarted    = "game_started"
	eventQuestionSolved = "question_solved"
	eventWrongAnswer    = "wrong_answer"
	eventCodeScanned    = "code_scanned"
	eventWrongCode      = "wrong_code"
	eventTeamFinished   = "team_finished"
	eventPointsAwarded  = "points_awarded"
	eventGameReset      = "game_reset"
)

// Broker is an in-process pub/sub for SSE events, keyed by team ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given team.
func (b *Broker) Subscribe(teamID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[teamID] == nil {
		b.subs[teamID] = make(map[chan []byte]struct{})
	}
	b.subs[teamID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the team's subscribers.
func (b *Broker) Unsubscribe(teamID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[teamID], ch)
	if len(b.subs[teamID]) == 0 {
		delete(b.subs, teamID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given team.
func (b *Broker) Publish(teamID string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[teamID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Broadcast sends an event to every subscriber regardless of team.
func (b *Broker) Broadcast(event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for _, subs := range b.subs {
		for ch := range subs {
			select {
			case ch <- data:
			default:
			}
		}
	}
	b.mu.RUnlock()
}
