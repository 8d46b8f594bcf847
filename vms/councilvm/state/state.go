// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state persists the council, its elections and their ballots.
package state

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/cache"
	"github.com/luxfi/cache/lru"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/ids"

	"github.com/luxfi/council/vms/councilvm/ballot"
	"github.com/luxfi/council/vms/councilvm/election"
)

const (
	electionCacheSize = 64
	voteTotalLen      = 32
)

var (
	SingletonPrefix     = []byte("singleton")
	ElectionPrefix      = []byte("election")
	SchedulePrefix      = []byte("schedule")
	SettingsPrefix      = []byte("settings")
	BallotPrefix        = []byte("ballot")
	RegistryPrefix      = []byte("registry")
	RegistryIndexPrefix = []byte("registryIndex")
	VotesPrefix         = []byte("votes")
	OutboxPrefix        = []byte("outbox")

	CouncilKey      = []byte("council")
	NextSettingsKey = []byte("next settings")

	errWrongCodecVersion = errors.New("wrong codec version")
	errCorruptVoteTotal  = errors.New("corrupt vote total")
)

// State is the persisted module state. Writes accumulate in memory until
// [State.Commit], [State.Abort] drops them.
type State struct {
	baseDB *versiondb.Database

	singletonDB     database.Database
	electionDB      database.Database
	scheduleDB      database.Database
	settingsDB      database.Database
	ballotDB        database.Database
	registryDB      database.Database
	registryIndexDB database.Database
	votesDB         database.Database
	outboxDB        database.Database

	// Caches electionID -> election record. Only committed records are kept.
	electionCache cache.Cacher[uint64, *election.Election]
	// Election records written since the last commit.
	modifiedElections map[uint64]*election.Election
}

func New(db database.Database) *State {
	baseDB := versiondb.New(db)
	return &State{
		baseDB:            baseDB,
		singletonDB:       prefixdb.New(SingletonPrefix, baseDB),
		electionDB:        prefixdb.New(ElectionPrefix, baseDB),
		scheduleDB:        prefixdb.New(SchedulePrefix, baseDB),
		settingsDB:        prefixdb.New(SettingsPrefix, baseDB),
		ballotDB:          prefixdb.New(BallotPrefix, baseDB),
		registryDB:        prefixdb.New(RegistryPrefix, baseDB),
		registryIndexDB:   prefixdb.New(RegistryIndexPrefix, baseDB),
		votesDB:           prefixdb.New(VotesPrefix, baseDB),
		outboxDB:          prefixdb.New(OutboxPrefix, baseDB),
		electionCache:     lru.NewCache[uint64, *election.Election](electionCacheSize),
		modifiedElections: make(map[uint64]*election.Election),
	}
}

// OutboxDB is the key space of outbound cross-chain messages. It shares the
// commit of the rest of the state.
func (s *State) OutboxDB() database.Database {
	return s.outboxDB
}

func (s *State) Commit() error {
	defer s.Abort()
	if err := s.baseDB.Commit(); err != nil {
		return err
	}
	for id, e := range s.modifiedElections {
		s.electionCache.Put(id, clone(e))
	}
	clear(s.modifiedElections)
	return nil
}

func (s *State) Abort() {
	s.baseDB.Abort()
	for id := range s.modifiedElections {
		s.electionCache.Evict(id)
	}
	clear(s.modifiedElections)
}

// GetCouncil returns the singleton record, or an empty uninitialized council
// if none was written yet.
func (s *State) GetCouncil() (*Council, error) {
	c := &Council{}
	err := get(s.singletonDB, CouncilKey, c)
	if errors.Is(err, database.ErrNotFound) {
		return c, nil
	}
	return c, err
}

func (s *State) PutCouncil(c *Council) error {
	return put(s.singletonDB, CouncilKey, c)
}

func (s *State) GetSchedule(electionID uint64) (election.Schedule, error) {
	var sch election.Schedule
	return sch, get(s.scheduleDB, database.PackUInt64(electionID), &sch)
}

func (s *State) PutSchedule(electionID uint64, sch election.Schedule) error {
	return put(s.scheduleDB, database.PackUInt64(electionID), &sch)
}

func (s *State) GetSettings(electionID uint64) (election.Settings, error) {
	var settings election.Settings
	return settings, get(s.settingsDB, database.PackUInt64(electionID), &settings)
}

func (s *State) PutSettings(electionID uint64, settings election.Settings) error {
	return put(s.settingsDB, database.PackUInt64(electionID), &settings)
}

// GetNextSettings returns the staged settings of the following election.
func (s *State) GetNextSettings() (election.Settings, error) {
	var settings election.Settings
	err := get(s.singletonDB, NextSettingsKey, &settings)
	if errors.Is(err, database.ErrNotFound) {
		return settings, nil
	}
	return settings, err
}

func (s *State) PutNextSettings(settings election.Settings) error {
	return put(s.singletonDB, NextSettingsKey, &settings)
}

// GetElection returns the record of [electionID]. An election that was never
// written is returned empty.
func (s *State) GetElection(electionID uint64) (*election.Election, error) {
	if e, ok := s.modifiedElections[electionID]; ok {
		return e, nil
	}
	if e, ok := s.electionCache.Get(electionID); ok {
		return clone(e), nil
	}

	e := election.New(electionID)
	err := get(s.electionDB, database.PackUInt64(electionID), e)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return e, nil
	case err != nil:
		return nil, err
	}
	s.electionCache.Put(electionID, e)
	return clone(e), nil
}

func (s *State) PutElection(e *election.Election) error {
	if err := put(s.electionDB, database.PackUInt64(e.ID), e); err != nil {
		return err
	}
	s.modifiedElections[e.ID] = e
	return nil
}

// GetBallot returns the ballot stored under [key], or an empty ballot.
func (s *State) GetBallot(key ballot.Key) (*ballot.Ballot, error) {
	b := &ballot.Ballot{}
	err := get(s.ballotDB, key.Marshal(), b)
	if errors.Is(err, database.ErrNotFound) {
		return b, nil
	}
	return b, err
}

func (s *State) PutBallot(key ballot.Key, b *ballot.Ballot) error {
	return put(s.ballotDB, key.Marshal(), b)
}

// RegisterBallot adds [key] to the registry of its election. Registering a
// key twice is a no-op. Returns true if the key was added.
func (s *State) RegisterBallot(e *election.Election, key ballot.Key) (bool, error) {
	keyBytes := key.Marshal()
	has, err := s.registryIndexDB.Has(keyBytes)
	if err != nil || has {
		return false, err
	}

	index := e.NumBallots
	if err := database.PutUInt64(s.registryIndexDB, keyBytes, index); err != nil {
		return false, err
	}
	if err := s.registryDB.Put(registryKey(e.ID, index), keyBytes); err != nil {
		return false, err
	}
	e.NumBallots++
	return true, s.PutElection(e)
}

// GetRegistryIndex returns the position of [key] in its election's registry
// and whether it is registered at all.
func (s *State) GetRegistryIndex(key ballot.Key) (uint64, bool, error) {
	index, err := database.GetUInt64(s.registryIndexDB, key.Marshal())
	switch {
	case errors.Is(err, database.ErrNotFound):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}
	return index, true, nil
}

// IsRegistered reports whether [key] is in its election's registry.
func (s *State) IsRegistered(key ballot.Key) (bool, error) {
	return s.registryIndexDB.Has(key.Marshal())
}

// GetRegisteredBallot returns the [index]th registered ballot of
// [electionID].
func (s *State) GetRegisteredBallot(electionID uint64, index uint64) (ballot.Key, *ballot.Ballot, error) {
	keyBytes, err := s.registryDB.Get(registryKey(electionID, index))
	if err != nil {
		return ballot.Key{}, nil, fmt.Errorf("registry entry %d of election %d: %w", index, electionID, err)
	}
	var key ballot.Key
	if err := key.Unmarshal(keyBytes); err != nil {
		return ballot.Key{}, nil, err
	}
	b, err := s.GetBallot(key)
	return key, b, err
}

// GetCandidateVotes returns the vote total of [candidate] in [electionID].
func (s *State) GetCandidateVotes(electionID uint64, candidate ids.ShortID) (*uint256.Int, error) {
	b, err := s.votesDB.Get(votesKey(electionID, candidate))
	switch {
	case errors.Is(err, database.ErrNotFound):
		return new(uint256.Int), nil
	case err != nil:
		return nil, err
	case len(b) != voteTotalLen:
		return nil, fmt.Errorf("%w: %d bytes", errCorruptVoteTotal, len(b))
	}
	return new(uint256.Int).SetBytes32(b), nil
}

// AddCandidateVotes adds [amount] to the vote total of [candidate].
func (s *State) AddCandidateVotes(electionID uint64, candidate ids.ShortID, amount uint64) error {
	total, err := s.GetCandidateVotes(electionID, candidate)
	if err != nil {
		return err
	}
	total.Add(total, uint256.NewInt(amount))
	totalBytes := total.Bytes32()
	return s.votesDB.Put(votesKey(electionID, candidate), totalBytes[:])
}

func registryKey(electionID, index uint64) []byte {
	key := make([]byte, 0, 2*database.Uint64Size)
	key = append(key, database.PackUInt64(electionID)...)
	return append(key, database.PackUInt64(index)...)
}

func votesKey(electionID uint64, candidate ids.ShortID) []byte {
	key := make([]byte, 0, database.Uint64Size+len(ids.ShortEmpty))
	key = append(key, database.PackUInt64(electionID)...)
	return append(key, candidate[:]...)
}

func get(db database.KeyValueReader, key []byte, v any) error {
	b, err := db.Get(key)
	if err != nil {
		return err
	}
	version, err := Codec.Unmarshal(b, v)
	if err != nil {
		return err
	}
	if version != CodecVersion {
		return fmt.Errorf("%w: %d", errWrongCodecVersion, version)
	}
	return nil
}

func put(db database.KeyValueWriter, key []byte, v any) error {
	b, err := Codec.Marshal(CodecVersion, v)
	if err != nil {
		return err
	}
	return db.Put(key, b)
}

func clone(e *election.Election) *election.Election {
	c := *e
	c.Nominees = append([]ids.ShortID(nil), e.Nominees...)
	c.Winners = append([]ids.ShortID(nil), e.Winners...)
	return &c
}
