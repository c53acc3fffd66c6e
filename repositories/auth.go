//go:generate go run go.uber.org/mock/mockgen -source=auth.go -destination=../mocks/mock_auth_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"time"

	"svasthya/domain"
	"svasthya/errors"

	"github.com/dgraph-io/badger/v4"
)

// authStateKey is the single key holding the persisted mentor session.
const authStateKey = "auth:mentor"

type IAuthRepository interface {
	SaveState(state MentorAuthState) error
	LoadState() (MentorAuthState, error)
	ClearState() error
}

// MentorAuthState is the serialized mentor session: read on startup,
// written on login, cleared on logout.
type MentorAuthState struct {
	Authenticated    bool                 `json:"authenticated"`
	Mentor           domain.Participant   `json:"mentor"`
	AssignedStudents []domain.Participant `json:"assignedStudents"`
	Token            string               `json:"token,omitempty"`
	SavedAt          time.Time            `json:"savedAt"`
}

// AuthRepository persists the mentor auth state in BadgerDB.
type AuthRepository struct {
	db *badger.DB
}

func NewAuthRepository(db *badger.DB) AuthRepository {
	return AuthRepository{db: db}
}

func (a AuthRepository) SaveState(state MentorAuthState) error {
	bytes, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(authStateKey), bytes)
	})
}

// LoadState returns ErrAuthStateNotFound when nothing has been saved,
// so startup can distinguish "logged out" from a real storage failure.
func (a AuthRepository) LoadState() (MentorAuthState, error) {
	var state MentorAuthState
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(authStateKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &state)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return MentorAuthState{}, errors.ErrAuthStateNotFound
	}
	if err != nil {
		return MentorAuthState{}, err
	}
	return state, nil
}

func (a AuthRepository) ClearState() error {
	return a.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(authStateKey))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
