package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/imdario/mergo"
	"gopkg.in/yaml.v3"

	"github.com/warzone2100/chartsvg/chart"
)

// Theme is a named preset of presentation options. Its values only fill in
// what a request leaves empty.
type Theme struct {
	Background string              `yaml:"background" json:"background,omitempty"`
	Margin     *chart.Margins      `yaml:"margin" json:"margin,omitempty"`
	XAxis      chart.AxisStyle     `yaml:"xAxis" json:"xAxis"`
	YAxis      chart.AxisStyle     `yaml:"yAxis" json:"yAxis"`
	Grid       chart.GridOptions   `yaml:"grid" json:"grid"`
	Legend     chart.LegendOptions `yaml:"legend" json:"legend"`
	Palette    []string            `yaml:"palette" json:"palette,omitempty"`
}

type themeSet struct {
	lock   sync.RWMutex
	themes map[string]Theme
}

func newThemeSet() *themeSet {
	return &themeSet{themes: map[string]Theme{}}
}

func (ts *themeSet) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return ts.Parse(b)
}

func (ts *themeSet) Parse(b []byte) error {
	m := map[string]Theme{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return err
	}
	ts.lock.Lock()
	ts.themes = m
	ts.lock.Unlock()
	log.Printf("Loaded %d themes", len(m))
	return nil
}

func (ts *themeSet) Get(name string) (Theme, bool) {
	ts.lock.RLock()
	defer ts.lock.RUnlock()
	t, ok := ts.themes[name]
	return t, ok
}

func (ts *themeSet) Names() []string {
	ts.lock.RLock()
	ret := make([]string, 0, len(ts.themes))
	for k := range ts.themes {
		ret = append(ret, k)
	}
	ts.lock.RUnlock()
	sort.Strings(ret)
	return ret
}

// Watch reloads the themes file whenever it is written or replaced. The
// directory is watched since editors often swap the file instead of writing
// to it.
func (ts *themeSet) Watch(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					log.Println("Updating themes")
					if err := ts.Load(path); err != nil {
						log.Println("Error while parsing themes:", err.Error())
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Println("error:", err)
			}
		}
	}()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// Apply fills the options req left empty from the theme it names. The value
// axis is only themed when present, since a line chart without one is
// rejected.
func (ts *themeSet) Apply(req *chart.Request) error {
	if req.Theme == "" {
		return nil
	}
	t, ok := ts.Get(req.Theme)
	if !ok {
		return &malformedRequest{status: http.StatusBadRequest, msg: fmt.Sprintf("unknown theme %q", req.Theme)}
	}
	if req.Dimensions.Background == "" {
		req.Dimensions.Background = t.Background
	}
	if t.Margin != nil {
		if req.Dimensions.Margin == nil {
			m := *t.Margin
			req.Dimensions.Margin = &m
		} else if err := mergo.Merge(req.Dimensions.Margin, *t.Margin); err != nil {
			return err
		}
	}
	if req.XAxis == nil {
		req.XAxis = &chart.TimeAxisOptions{}
	}
	if err := mergo.Merge(&req.XAxis.AxisStyle, t.XAxis); err != nil {
		return err
	}
	if req.YAxis != nil {
		if err := mergo.Merge(&req.YAxis.AxisStyle, t.YAxis); err != nil {
			return err
		}
	}
	if req.Grid == nil {
		req.Grid = &chart.GridOptions{}
	}
	if err := mergo.Merge(req.Grid, t.Grid); err != nil {
		return err
	}
	if req.Legend == nil {
		req.Legend = &chart.LegendOptions{}
	}
	if err := mergo.Merge(req.Legend, t.Legend); err != nil {
		return err
	}
	if len(t.Palette) > 0 {
		for i := range req.Series {
			if req.Series[i].Color == "" {
				req.Series[i].Color = t.Palette[i%len(t.Palette)]
			}
		}
	}
	return nil
}

func APIgetThemes(_ http.ResponseWriter, _ *http.Request) (int, any) {
	ret := map[string]Theme{}
	for _, n := range themes.Names() {
		t, _ := themes.Get(n)
		ret[n] = t
	}
	return 200, ret
}
