package folium

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// The on-disk stores are opaque binary files: one snapshot of all canonical
// events and raw logs, one snapshot of the instrument reference data. Loading
// reads everything in any order; saving replaces the whole file atomically.

// eventRecord is the wire form of an Event.
type eventRecord struct {
	Time       time.Time `msgpack:"time"`
	Kind       string    `msgpack:"kind"`
	Symbol     string    `msgpack:"symbol"`
	ISIN       string    `msgpack:"isin"`
	Name       string    `msgpack:"name"`
	Quantity   int64     `msgpack:"quantity"`
	Price      string    `msgpack:"price"`
	Currency   string    `msgpack:"currency"`
	Fee        string    `msgpack:"fee"`
	Balance    string    `msgpack:"balance,omitempty"`
	BalanceCur string    `msgpack:"balanceCur,omitempty"`
	Source     string    `msgpack:"source"`
}

func toRecord(e Event) eventRecord {
	rec := eventRecord{
		Time:     e.Time,
		Kind:     string(e.Kind),
		Symbol:   e.Symbol,
		ISIN:     e.ISIN,
		Name:     e.Name,
		Quantity: e.Quantity,
		Price:    e.Price.Decimal().String(),
		Currency: e.Currency(),
		Fee:      e.Fee.Decimal().String(),
		Source:   e.Source,
	}
	if e.Balance != nil {
		rec.Balance = e.Balance.Decimal().String()
		rec.BalanceCur = e.Balance.Currency()
	}
	return rec
}

func (rec eventRecord) event() (Event, error) {
	price, err := decimal.NewFromString(rec.Price)
	if err != nil {
		return Event{}, fmt.Errorf("invalid stored price %q: %w", rec.Price, err)
	}
	fee, err := decimal.NewFromString(rec.Fee)
	if err != nil {
		return Event{}, fmt.Errorf("invalid stored fee %q: %w", rec.Fee, err)
	}
	e := Event{
		Time:     rec.Time,
		Kind:     Kind(rec.Kind),
		Symbol:   rec.Symbol,
		ISIN:     rec.ISIN,
		Name:     rec.Name,
		Quantity: rec.Quantity,
		Price:    M(price, rec.Currency),
		Fee:      M(fee, rec.Currency),
		Source:   rec.Source,
	}
	if rec.Balance != "" {
		bal, err := decimal.NewFromString(rec.Balance)
		if err != nil {
			return Event{}, fmt.Errorf("invalid stored balance %q: %w", rec.Balance, err)
		}
		b := M(bal, rec.BalanceCur)
		e.Balance = &b
	}
	return e, nil
}

// storeSnapshot is the wire form of the whole store.
type storeSnapshot struct {
	Events map[string][]eventRecord `msgpack:"events"`
	Raw    map[string][]RawRecord   `msgpack:"raw"`
}

// EncodeStore writes a binary snapshot of the store to w.
func EncodeStore(w io.Writer, s *Store) error {
	snap := storeSnapshot{
		Events: make(map[string][]eventRecord),
		Raw:    make(map[string][]RawRecord),
	}
	for isin, events := range s.All() {
		recs := make([]eventRecord, 0, len(events))
		for _, e := range events {
			recs = append(recs, toRecord(e))
		}
		snap.Events[isin] = recs
	}
	for _, source := range s.Sources() {
		snap.Raw[source] = s.RawRecords(source)
	}
	if err := msgpack.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("could not encode store: %w", err)
	}
	return nil
}

// DecodeStore reads a binary snapshot of the store from r.
func DecodeStore(r io.Reader) (*Store, error) {
	var snap storeSnapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("could not decode store: %w", err)
	}
	store := NewStore()
	for _, recs := range snap.Events {
		for _, rec := range recs {
			e, err := rec.event()
			if err != nil {
				return nil, err
			}
			store.Append(e)
		}
	}
	for source, records := range snap.Raw {
		store.AppendRaw(source, records...)
	}
	return store, nil
}

// referenceRecord is the wire form of an Instrument.
type referenceRecord struct {
	ISIN          string    `msgpack:"isin"`
	Symbol        string    `msgpack:"symbol"`
	Name          string    `msgpack:"name"`
	Sector        string    `msgpack:"sector"`
	Industry      string    `msgpack:"industry"`
	LastRefreshed time.Time `msgpack:"lastRefreshed"`
}

// EncodeReference writes a binary snapshot of the reference data to w.
func EncodeReference(w io.Writer, ref *Reference) error {
	records := make([]referenceRecord, 0)
	for _, inst := range ref.All() {
		records = append(records, referenceRecord(inst))
	}
	if err := msgpack.NewEncoder(w).Encode(records); err != nil {
		return fmt.Errorf("could not encode reference data: %w", err)
	}
	return nil
}

// DecodeReference reads a binary snapshot of the reference data from r.
func DecodeReference(r io.Reader) (*Reference, error) {
	var records []referenceRecord
	if err := msgpack.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("could not decode reference data: %w", err)
	}
	ref := NewReference()
	for _, rec := range records {
		ref.Put(Instrument(rec))
	}
	return ref, nil
}

// saveAtomic writes the encoded form to a temp file and renames it over the
// target, so the store file is replaced as a whole or not at all.
func saveAtomic(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace %q: %w", path, err)
	}
	return nil
}

// SaveStore atomically replaces the on-disk event store.
func SaveStore(path string, s *Store) error {
	return saveAtomic(path, func(w io.Writer) error { return EncodeStore(w, s) })
}

// LoadStore loads the on-disk event store. A missing file yields an empty
// store.
func LoadStore(path string) (*Store, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open store %q: %w", path, err)
	}
	defer f.Close()
	return DecodeStore(f)
}

// SaveReference atomically replaces the on-disk reference data.
func SaveReference(path string, ref *Reference) error {
	return saveAtomic(path, func(w io.Writer) error { return EncodeReference(w, ref) })
}

// LoadReference loads the on-disk reference data. A missing file yields an
// empty reference set.
func LoadReference(path string) (*Reference, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewReference(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open reference data %q: %w", path, err)
	}
	defer f.Close()
	return DecodeReference(f)
}
