// Package asset loads files from an asset root on background goroutines and
// hands them to the ECS world through typed handles.
//
// Loads are requested with Load, which returns immediately. The Server's
// Update method, run once per tick by the Plugin, publishes finished loads so
// systems observe state changes at tick boundaries only.
package asset

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/kamstrup/intmap"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	path  AssetPath
	typ   reflect.Type
	state LoadState
	value any
	err   error
	// generation counts replacements by hot reload.
	generation int
}

// fileState caches what one file's loader produced.
type fileState struct {
	state   LoadState
	root    any
	labeled map[string]any
	err     error
	// reload is set when a reload was requested while a load was running.
	reload bool
}

type loadResult struct {
	file    string
	root    any
	labeled map[string]any
	err     error
}

// Event reports an entry whose state changed during the last Update.
type Event struct {
	Id    Id
	Path  AssetPath
	State LoadState
	// Reloaded is set when the value of a loaded entry was replaced.
	Reloaded bool
	Err      error
}

// Server owns every asset entry of a world.
type Server struct {
	root    string
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	loaders map[string]Loader
	group   singleflight.Group
	pending sync.WaitGroup

	mu        sync.Mutex
	entries   *intmap.Map[Id, *entry]
	byPath    map[AssetPath]Id
	byFile    map[string][]Id
	files     map[string]*fileState
	completed []loadResult
	events    []Event
	nextId    Id

	watcher *Watcher
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for load outcomes.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLoaders registers loaders at construction.
func WithLoaders(loaders ...Loader) ServerOption {
	return func(s *Server) {
		for _, l := range loaders {
			s.RegisterLoader(l)
		}
	}
}

// NewServer creates a Server reading files below root.
func NewServer(root string, opts ...ServerOption) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		root:    root,
		logger:  slog.Default(),
		ctx:     ctx,
		cancel:  cancel,
		loaders: make(map[string]Loader),
		entries: intmap.New[Id, *entry](64),
		byPath:  make(map[AssetPath]Id),
		byFile:  make(map[string][]Id),
		files:   make(map[string]*fileState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the asset root directory.
func (s *Server) Root() string {
	return s.root
}

// RegisterLoader makes l responsible for its extensions, replacing any
// loader registered earlier for the same extension.
func (s *Server) RegisterLoader(l Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ext := range l.Extensions() {
		s.loaders[ext] = l
	}
}

func (s *Server) loaderFor(p AssetPath) (Loader, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loaders[p.Ext()]
	return l, ok
}

// Load requests the asset at path and returns its handle. Requesting the
// same path again returns the same handle without reloading. Requesting a
// path already requested with a different type panics.
func Load[T any](s *Server, path string) Handle[T] {
	return Handle[T]{id: s.load(ParseAssetPath(path), reflect.TypeFor[T]())}
}

func (s *Server) load(p AssetPath, typ reflect.Type) Id {
	s.mu.Lock()
	if id, ok := s.byPath[p]; ok {
		e, _ := s.entries.Get(id)
		s.mu.Unlock()
		if e.typ != typ {
			panic(fmt.Sprintf("asset %s requested as %s, already loading as %s", p, typ, e.typ))
		}
		return id
	}

	s.nextId++
	id := s.nextId
	e := &entry{path: p, typ: typ, state: Loading}
	s.entries.Put(id, e)
	s.byPath[p] = id
	s.byFile[p.Path] = append(s.byFile[p.Path], id)

	file, started := s.files[p.Path]
	if started && file.state != Loading {
		// The file is already decoded: resolve against the cached result at the next Update.
		s.completed = append(s.completed, loadResult{file: p.Path, root: file.root, labeled: file.labeled, err: file.err})
		s.mu.Unlock()
		return id
	}
	if !started {
		s.files[p.Path] = &fileState{state: Loading}
	}
	s.mu.Unlock()

	if !started {
		s.startLoad(p.Path)
	}
	return id
}

func (s *Server) startLoad(file string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		v, err, _ := s.group.Do(file, func() (any, error) {
			return s.decode(file)
		})

		result := loadResult{file: file, err: err}
		if err == nil {
			decoded := v.(loadResult)
			result.root = decoded.root
			result.labeled = decoded.labeled
		}

		s.mu.Lock()
		s.completed = append(s.completed, result)
		s.mu.Unlock()
	}()
}

func (s *Server) decode(file string) (loadResult, error) {
	p := AssetPath{Path: file}
	loader, ok := s.loaderFor(p)
	if !ok {
		return loadResult{}, fmt.Errorf("%s: %w for %q", file, ErrNoLoader, p.Ext())
	}

	lc := &LoadContext{
		Path:     file,
		FullPath: filepath.Join(s.root, filepath.FromSlash(file)),
		labeled:  make(map[string]any),
	}
	root, err := loader.Load(s.ctx, lc)
	if err != nil {
		return loadResult{}, fmt.Errorf("load %s: %w", file, err)
	}
	return loadResult{file: file, root: root, labeled: lc.labeled}, nil
}

// Reload decodes file again and replaces the values of its loaded entries at
// the next Update. Files never requested are ignored.
func (s *Server) Reload(file string) {
	s.mu.Lock()
	state, ok := s.files[file]
	if !ok {
		s.mu.Unlock()
		return
	}
	if state.state == Loading {
		state.reload = true
		s.mu.Unlock()
		return
	}
	state.state = Loading
	s.mu.Unlock()

	s.startLoad(file)
}

// Add stores value under a new handle with no backing file.
func Add[T any](s *Server, value T) Handle[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	id := s.nextId
	s.entries.Put(id, &entry{typ: reflect.TypeFor[T](), state: Loaded, value: &value})
	return Handle[T]{id: id}
}

// Get returns the loaded value of h, or false if it is not loaded.
func Get[T any](s *Server, h Handle[T]) (*T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries.Get(h.id)
	if !ok || e.state != Loaded {
		return nil, false
	}
	v, ok := e.value.(*T)
	return v, ok
}

// MustGet is Get that panics if h is not loaded.
func MustGet[T any](s *Server, h Handle[T]) *T {
	v, ok := Get(s, h)
	if !ok {
		panic(fmt.Sprintf("asset %v is %s", h, s.LoadState(h.id)))
	}
	return v
}

// LoadState returns the state of an entry. Unknown ids are NotLoaded.
func (s *Server) LoadState(id Id) LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries.Get(id)
	if !ok {
		return NotLoaded
	}
	return e.state
}

// LoadStateOf is LoadState for a typed handle.
func LoadStateOf[T any](s *Server, h Handle[T]) LoadState {
	return s.LoadState(h.id)
}

// Err returns why an entry failed, or nil.
func (s *Server) Err(id Id) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries.Get(id)
	if !ok {
		return nil
	}
	return e.err
}

// Path returns the path an entry was loaded from. Added entries have an empty path.
func (s *Server) Path(id Id) AssetPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries.Get(id)
	if !ok {
		return AssetPath{}
	}
	return e.path
}

// Len returns the number of entries.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}

// Update publishes every load that finished since the previous call and
// returns the resulting events. It must be called from the thread that runs
// the systems.
func (s *Server) Update() []Event {
	s.mu.Lock()
	completed := s.completed
	s.completed = nil
	s.events = s.events[:0]

	var again []string
	for _, result := range completed {
		file := s.files[result.file]
		file.root, file.labeled, file.err = result.root, result.labeled, result.err
		if result.err != nil {
			file.state = Failed
		} else {
			file.state = Loaded
		}
		for _, id := range s.byFile[result.file] {
			e, _ := s.entries.Get(id)
			s.resolve(id, e, file)
		}
		if file.reload {
			file.reload = false
			file.state = Loading
			again = append(again, result.file)
		}
	}
	events := append([]Event(nil), s.events...)
	s.mu.Unlock()

	for _, file := range again {
		s.startLoad(file)
	}

	for _, ev := range events {
		switch {
		case ev.State == Failed:
			s.logger.Error("asset load failed", "path", ev.Path.String(), "error", ev.Err)
		case ev.Reloaded:
			s.logger.Info("asset reloaded", "path", ev.Path.String())
		default:
			s.logger.Debug("asset loaded", "path", ev.Path.String())
		}
	}
	return events
}

// resolve settles one entry against its file's result. Called with mu held.
func (s *Server) resolve(id Id, e *entry, file *fileState) {
	wasLoaded := e.state == Loaded

	if file.err != nil {
		if e.state == Failed && e.err == file.err {
			return
		}
		e.state, e.value, e.err = Failed, nil, file.err
		s.events = append(s.events, Event{Id: id, Path: e.path, State: Failed, Err: e.err})
		return
	}

	value := file.root
	if e.path.Label != "" {
		v, ok := file.labeled[e.path.Label]
		if !ok {
			e.state, e.value, e.err = Failed, nil, fmt.Errorf("%s: %w", e.path, ErrLabelNotFound)
			s.events = append(s.events, Event{Id: id, Path: e.path, State: Failed, Err: e.err})
			return
		}
		value = v
	}
	if reflect.TypeOf(value) != reflect.PointerTo(e.typ) {
		e.state, e.value, e.err = Failed, nil, fmt.Errorf("%s: %w: have %T, want *%s", e.path, ErrTypeMismatch, value, e.typ)
		s.events = append(s.events, Event{Id: id, Path: e.path, State: Failed, Err: e.err})
		return
	}
	if wasLoaded && e.value == value {
		return
	}

	e.state, e.value, e.err = Loaded, value, nil
	if wasLoaded {
		e.generation++
	}
	s.events = append(s.events, Event{Id: id, Path: e.path, State: Loaded, Reloaded: wasLoaded})
}

// Generation returns how often an entry's value was replaced by a reload.
func (s *Server) Generation(id Id) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries.Get(id)
	if !ok {
		return 0
	}
	return e.generation
}

// Wait blocks until every background load has finished or ctx is done.
// Finished loads still need an Update to be published.
func (s *Server) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels running loads and stops the file watcher.
func (s *Server) Close() error {
	s.cancel()
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
