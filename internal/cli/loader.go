package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/haskins/sparqline/internal/dashboard"
	"github.com/haskins/sparqline/internal/querytext"
)

// LoadMode controls how errors are handled during definition loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the dashboards compiled from a definitions directory.
type LoadResult struct {
	Dashboards []dashboard.Dashboard
	FileCount  int // Number of CUE files found
}

// LoadError represents an error that occurred during definition loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDefinitions loads and compiles dashboard definitions from a
// directory of CUE files.
//
// Definitions use the shape:
//
//	dashboard: "endpoint health": {
//		description: "Liveness of the public endpoints"
//		panel: "class counts": {
//			endpoint: "https://example.org/sparql"
//			query:    "SELECT ..."
//			kind:     "bar"
//			position: 1
//		}
//	}
//
// Panel queries are validated with querytext.Validate at load time so a
// broken definition never reaches the store. If mode is LoadModeFailFast,
// returns on first error; LoadModeCollectAll gathers every error.
func LoadDefinitions(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("definitions directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing definitions directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{FileCount: len(cueFiles)}

	dashboardsVal := value.LookupPath(cue.ParsePath("dashboard"))
	if !dashboardsVal.Exists() {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: "no dashboards found in definitions"}}
	}

	iter, iterErr := dashboardsVal.Fields()
	if iterErr != nil {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating dashboards: %v", iterErr)}}
	}
	for iter.Next() {
		d, compileErrs := compileDashboard(iter.Label(), iter.Value())
		if len(compileErrs) > 0 {
			errs = append(errs, compileErrs...)
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Dashboards = append(result.Dashboards, *d)
	}

	if len(result.Dashboards) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no dashboards found in definitions"})
	}

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// compileDashboard converts one dashboard field into a store record,
// collecting every definition error.
func compileDashboard(name string, v cue.Value) (*dashboard.Dashboard, []error) {
	var errs []error
	d := &dashboard.Dashboard{Name: name}

	descVal := v.LookupPath(cue.ParsePath("description"))
	if !descVal.Exists() {
		errs = append(errs, &LoadError{
			Code:    ErrCodeDefDescription,
			Message: fmt.Sprintf("dashboard %q is missing a description", name),
			Pos:     v.Pos(),
		})
	} else {
		desc, err := descVal.String()
		if err != nil {
			errs = append(errs, &LoadError{
				Code:    ErrCodeDefDescription,
				Message: fmt.Sprintf("dashboard %q: description must be a string: %v", name, err),
				Pos:     descVal.Pos(),
			})
		} else {
			d.Description = desc
		}
	}

	panelsVal := v.LookupPath(cue.ParsePath("panel"))
	if !panelsVal.Exists() {
		errs = append(errs, &LoadError{
			Code:    ErrCodeDefNoPanels,
			Message: fmt.Sprintf("dashboard %q defines no panels", name),
			Pos:     v.Pos(),
		})
		return d, errs
	}

	iter, iterErr := panelsVal.Fields()
	if iterErr != nil {
		errs = append(errs, &LoadError{
			Code:    ErrCodeDefNoPanels,
			Message: fmt.Sprintf("dashboard %q: iterating panels: %v", name, iterErr),
			Pos:     panelsVal.Pos(),
		})
		return d, errs
	}
	position := 0
	for iter.Next() {
		position++
		p, panelErrs := compilePanel(name, iter.Label(), position, iter.Value())
		if len(panelErrs) > 0 {
			errs = append(errs, panelErrs...)
			continue
		}
		d.Panels = append(d.Panels, *p)
	}

	if len(d.Panels) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{
			Code:    ErrCodeDefNoPanels,
			Message: fmt.Sprintf("dashboard %q defines no panels", name),
			Pos:     panelsVal.Pos(),
		})
	}
	return d, errs
}

// compilePanel converts one panel field. defaultPosition is the panel's
// ordinal within the definition, used when position is not set.
func compilePanel(dashName, title string, defaultPosition int, v cue.Value) (*dashboard.Panel, []error) {
	var errs []error
	p := &dashboard.Panel{Title: title, Kind: dashboard.PanelTable, Position: defaultPosition}

	if ev := v.LookupPath(cue.ParsePath("endpoint")); ev.Exists() {
		endpoint, err := ev.String()
		if err != nil {
			errs = append(errs, &LoadError{
				Code:    ErrCodeDefPanelEndpoint,
				Message: fmt.Sprintf("dashboard %q panel %q: endpoint must be a string: %v", dashName, title, err),
				Pos:     ev.Pos(),
			})
		} else {
			p.Endpoint = endpoint
		}
	} else {
		errs = append(errs, &LoadError{
			Code:    ErrCodeDefPanelEndpoint,
			Message: fmt.Sprintf("dashboard %q panel %q is missing an endpoint", dashName, title),
			Pos:     v.Pos(),
		})
	}

	qv := v.LookupPath(cue.ParsePath("query"))
	if !qv.Exists() {
		errs = append(errs, &LoadError{
			Code:    ErrCodeDefPanelQuery,
			Message: fmt.Sprintf("dashboard %q panel %q is missing a query", dashName, title),
			Pos:     v.Pos(),
		})
	} else {
		query, err := qv.String()
		if err != nil {
			errs = append(errs, &LoadError{
				Code:    ErrCodeDefPanelQuery,
				Message: fmt.Sprintf("dashboard %q panel %q: query must be a string: %v", dashName, title, err),
				Pos:     qv.Pos(),
			})
		} else if res := querytext.Validate(query); !res.Valid {
			errs = append(errs, &LoadError{
				Code:    ErrCodeDefPanelQuery,
				Message: fmt.Sprintf("dashboard %q panel %q: %s", dashName, title, res.Error),
				Pos:     qv.Pos(),
			})
		} else {
			p.Query = query
		}
	}

	if kv := v.LookupPath(cue.ParsePath("kind")); kv.Exists() {
		kind, err := kv.String()
		if err != nil || !dashboard.PanelKind(kind).Valid() {
			errs = append(errs, &LoadError{
				Code:    ErrCodeDefPanelKind,
				Message: fmt.Sprintf("dashboard %q panel %q has unknown kind %q", dashName, title, kind),
				Pos:     kv.Pos(),
			})
		} else {
			p.Kind = dashboard.PanelKind(kind)
		}
	}

	if pv := v.LookupPath(cue.ParsePath("position")); pv.Exists() {
		pos, err := pv.Int64()
		if err != nil {
			errs = append(errs, &LoadError{
				Code:    ErrCodeGeneric,
				Message: fmt.Sprintf("dashboard %q panel %q: position must be an integer: %v", dashName, title, err),
				Pos:     pv.Pos(),
			})
		} else {
			p.Position = int(pos)
		}
	}

	return p, errs
}
