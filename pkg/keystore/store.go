package keystore

import (
	"crypto/rsa"
	"sync"

	"github.com/shaunb-optile/trustly-client-go/pkg/log"
	"github.com/shaunb-optile/trustly-client-go/pkg/metrics"
)

const (
	kindPrivate = "private"
	kindPublic  = "public"
)

// Store loads keys from sources and caches the outcome per source name. The
// first load of a source reads and parses it; concurrent and later loads wait
// for and share that result, failures included.
type Store struct {
	lg      log.Logger
	metrics *metrics.Metrics

	entries sync.Map // kind + "|" + source name -> *entry
}

type entry struct {
	once    sync.Once
	private *rsa.PrivateKey
	public  *rsa.PublicKey
	err     error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

func WithLogger(lg log.Logger) StoreOption {
	return func(s *Store) { s.lg = log.OrNoop(lg) }
}

func WithMetrics(m *metrics.Metrics) StoreOption {
	return func(s *Store) { s.metrics = m }
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{lg: log.NewNoopLogger()}
	for _, opt := range opts {
		opt(s)
	}
	s.lg = s.lg.WithName("keystore")
	return s
}

// LoadPrivateKey returns the private key held by src.
func (s *Store) LoadPrivateKey(src Source) (PrivateKeyHandle, error) {
	e := s.entry(kindPrivate, src)
	e.once.Do(func() {
		e.private, e.err = load(s, kindPrivate, src, parsePrivateKey)
	})
	if e.err != nil {
		return PrivateKeyHandle{}, e.err
	}
	return PrivateKeyHandle{key: e.private, source: src.Name()}, nil
}

// LoadPublicKey returns the public key held by src.
func (s *Store) LoadPublicKey(src Source) (PublicKeyHandle, error) {
	e := s.entry(kindPublic, src)
	e.once.Do(func() {
		e.public, e.err = load(s, kindPublic, src, parsePublicKey)
	})
	if e.err != nil {
		return PublicKeyHandle{}, e.err
	}
	return PublicKeyHandle{key: e.public, source: src.Name()}, nil
}

func (s *Store) entry(kind string, src Source) *entry {
	v, _ := s.entries.LoadOrStore(kind+"|"+src.Name(), &entry{})
	return v.(*entry)
}

func load[K any](s *Store, kind string, src Source, parse func([]byte) (K, error)) (K, error) {
	name := src.Name()

	var key K
	data, err := src.Read()
	if err == nil {
		key, err = parse(data)
	}
	s.metrics.RecordKeyLoad(kind, err)

	if err != nil {
		s.lg.Error("failed to load key", "kind", kind, "source", name, "error", err)
		var zero K
		return zero, &KeyLoadError{Source: name, Cause: err}
	}
	s.lg.Info("loaded key", "kind", kind, "source", name)
	return key, nil
}
