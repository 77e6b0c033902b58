package domain

import "strings"

// Keyer derives the storage key for each record kind. The core requires
// the mapping to be injective and stable; it assumes nothing else about
// key format. The surrounding system may substitute its own derivation.
type Keyer interface {
	StockKey(stockID string) string
	HolderKey(stockID, participantID string) string
	OrderKey(stockID, participantID string, side Side) string
}

// PathKeyer is the default Keyer. It joins the entity kind and ids with
// a separator that validated ids cannot contain, which makes the mapping
// injective.
type PathKeyer struct{}

func (PathKeyer) StockKey(stockID string) string {
	return "stock/" + stockID
}

func (PathKeyer) HolderKey(stockID, participantID string) string {
	return strings.Join([]string{"holder", stockID, participantID}, "/")
}

func (PathKeyer) OrderKey(stockID, participantID string, side Side) string {
	return strings.Join([]string{"order", stockID, participantID, string(side)}, "/")
}
