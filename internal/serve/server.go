package serve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mxdocs/internal/build"
	"mxdocs/internal/domain/config"
	"mxdocs/internal/domain/site"
	"mxdocs/internal/index"
	"mxdocs/internal/ingest"
	"mxdocs/internal/pkg/logger"
	"mxdocs/internal/render"

	"github.com/fsnotify/fsnotify"
)

const rebuildDebounce = 200 * time.Millisecond

type Server struct {
	cfg config.Config
	log *logger.Logger

	idx *index.Store
	md  *render.MarkdownRenderer

	mu     sync.RWMutex
	pages  *build.PageBuilder
	routes map[string]config.PageConfig
	static fs.FS

	sseMu    sync.Mutex
	sseConns map[chan string]struct{}

	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Nop()
	}
	st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}
	return &Server{
		cfg:      cfg,
		log:      log.With("component", "serve"),
		idx:      st,
		md:       render.NewMarkdownRenderer(),
		routes:   make(map[string]config.PageConfig),
		sseConns: make(map[chan string]struct{}),
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/dev/events", s.handleSSE)
	mux.HandleFunc("/", s.handleAny)
	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Rebuild(ctx); err != nil {
		return err
	}
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Rebuild re-ingests content, refreshes the index and reloads the theme.
func (s *Server) Rebuild(ctx context.Context) error {
	sourceDir := s.cfg.Build.SourceDir
	s.log.Debug("ingest", "source", sourceDir)
	recs, warns, err := ingest.Ingest(ctx, ingest.Options{
		SourceDir:  sourceDir,
		GroupField: config.DefaultGroupField,
	})
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	s.logWarnings(warns)

	if err := s.idx.Rebuild(recs); err != nil {
		return fmt.Errorf("index rebuild: %w", err)
	}

	tpl, err := render.NewTemplateRenderer(s.cfg.Build.ThemeDir, s.cfg.Site.Theme)
	if err != nil {
		return fmt.Errorf("load theme: %w", err)
	}
	static, err := tpl.Static()
	if err != nil {
		return fmt.Errorf("load theme static: %w", err)
	}

	pb := build.NewPageBuilder(s.cfg, s.md, tpl)
	pb.LiveReload = true

	byName := make(map[string]config.PageConfig, len(s.cfg.Pages))
	for _, p := range s.cfg.Pages {
		byName[p.Name] = p
	}
	routes := make(map[string]config.PageConfig, len(s.cfg.Pages))
	for _, r := range pb.Routes.Build(s.cfg.Pages) {
		if r.Kind != site.RouteCatalog {
			continue
		}
		routes[r.URLPath] = byName[r.Key]
		s.log.Debug("route", "route", r.String())
	}

	s.mu.Lock()
	s.pages = pb
	s.routes = routes
	s.static = static
	s.mu.Unlock()

	s.log.Info("rebuild complete", "records", len(recs), "warnings", len(warns))
	s.broadcastSSE("reload")
	return nil
}

func (s *Server) logWarnings(warns []ingest.Warning) {
	for _, w := range warns {
		s.log.Warn(w.Msg, "path", w.Path)
	}
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		roots := []string{s.cfg.Build.SourceDir}
		if st, e := os.Stat(s.cfg.Build.ThemeDir); e == nil && st.IsDir() {
			roots = append(roots, s.cfg.Build.ThemeDir)
		}
		for _, root := range roots {
			if err = addTree(w, root); err != nil {
				return
			}
		}
		go s.watchLoop(ctx)
	})
	return err
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Debug("watching for file changes")
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					_ = addTree(s.watcher, ev.Name)
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(rebuildDebounce)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "error", err)
		case <-debounce.C:
			rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.Rebuild(rctx); err != nil {
				s.log.Error("rebuild failed", "error", err)
			}
			cancel()
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) handleAny(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	pb, routes, static := s.pages, s.routes, s.static
	s.mu.RUnlock()
	if pb == nil {
		http.Error(w, "site not built yet", http.StatusServiceUnavailable)
		return
	}

	if page, ok := routes[pageKey(r.URL.Path)]; ok {
		s.handleCatalog(w, r, pb, page)
		return
	}
	if s.serveStatic(w, r, static) {
		return
	}
	s.handleNotFound(w, r, pb)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request, pb *build.PageBuilder, page config.PageConfig) {
	records, err := s.idx.Query(index.Filter{
		Category:     page.Category,
		FeaturedOnly: page.FeaturedOnly,
	})
	if err != nil {
		s.log.Error("query failed", "page", page.Name, "error", err)
		http.Error(w, "query error", http.StatusInternalServerError)
		return
	}
	out, warns, err := pb.RenderCatalog(r.Context(), page, records)
	s.logWarnings(warns)
	if err != nil {
		s.log.Error("render failed", "page", page.Name, "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, out)
}

func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request, static fs.FS) bool {
	if static == nil {
		return false
	}
	rel := strings.TrimPrefix(r.URL.Path, s.cfg.Build.BasePath)
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	if rel == "" {
		return false
	}
	st, err := fs.Stat(static, rel)
	if err != nil || st.IsDir() {
		return false
	}
	http.ServeFileFS(w, r, static, rel)
	return true
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request, pb *build.PageBuilder) {
	out, err := pb.RenderNotFound(r.Context(), r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(out)
}

// pageKey maps "/a/b", "/a/b/" and "/a/b/index.html" to "/a/b/".
func pageKey(p string) string {
	p = strings.TrimSuffix(p, "index.html")
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
