package models

import "errors"

var (
	ErrInvalidJSON            = errors.New("invalid json")
	ErrInvalidCard            = errors.New("invalid card")
	ErrNotAPlayer             = errors.New("not a player")
	ErrNotYourTurn            = errors.New("not your turn")
	ErrWrongHandSize          = errors.New("wrong hand size")
	ErrStockEmpty             = errors.New("stock empty")
	ErrDiscardEmpty           = errors.New("discard empty")
	ErrCardNotInHand          = errors.New("card not in hand")
	ErrInvalidPartitionSize   = errors.New("declared melds must total 13 cards")
	ErrInsufficientCards      = errors.New("not enough cards to deal")
	ErrRoundAlreadyFinished   = errors.New("round already finished")
	ErrRoundNotFinished       = errors.New("round not finished")
	ErrNotEnoughActivePlayers = errors.New("not enough active players")
	ErrInvalidPlayer          = errors.New("invalid player")
	ErrUnknownMoveType        = errors.New("unknown move type")
	ErrTableFull              = errors.New("table full")
	ErrTableNotJoinable       = errors.New("table not joinable")
	ErrTableFinished          = errors.New("table finished")
	ErrRoundStateMissing      = errors.New("persisted round state missing")
	ErrRoundStateConflict     = errors.New("round state conflict")
	ErrPlayerNotAtTable       = errors.New("player not at table")
	ErrTableNotFound          = errors.New("table not found")
)
