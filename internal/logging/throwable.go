package logging

import (
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
	"sync"
)

// PackagingData names the module that owns an error type.
type PackagingData struct {
	Package string `json:"package"`
	Module  string `json:"module,omitempty"`
	Version string `json:"version,omitempty"`
}

// ThrowableProxy is a lazily rendered view of an error chain attached to a
// Record. The chain is walked on first access; packaging data is only filled
// when CalculatePackagingData runs.
type ThrowableProxy struct {
	err error

	once   sync.Once
	causes []CauseView

	packaging []PackagingData
}

// CauseView describes one link of an error chain.
type CauseView struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewThrowableProxy wraps err. A nil error yields a nil proxy.
func NewThrowableProxy(err error) *ThrowableProxy {
	if err == nil {
		return nil
	}
	return &ThrowableProxy{err: err}
}

// Err returns the wrapped error.
func (p *ThrowableProxy) Err() error {
	if p == nil {
		return nil
	}
	return p.err
}

// Message returns the outermost error message.
func (p *ThrowableProxy) Message() string {
	if p == nil {
		return ""
	}
	return p.err.Error()
}

// Causes returns the error chain, outermost first.
func (p *ThrowableProxy) Causes() []CauseView {
	if p == nil {
		return nil
	}
	p.once.Do(func() {
		for _, err := range unwrapChain(p.err) {
			p.causes = append(p.causes, CauseView{
				Type:    fmt.Sprintf("%T", err),
				Message: err.Error(),
			})
		}
	})
	return p.causes
}

// Packaging returns the packaging data computed by CalculatePackagingData, one
// entry per link of the error chain.
func (p *ThrowableProxy) Packaging() []PackagingData {
	if p == nil {
		return nil
	}
	return p.packaging
}

// CalculatePackagingData resolves the owning module and version of every error
// type in the chain from the binary's build info.
func (p *ThrowableProxy) CalculatePackagingData() {
	if p == nil || p.packaging != nil {
		return
	}
	info, _ := debug.ReadBuildInfo()
	chain := unwrapChain(p.err)
	packaging := make([]PackagingData, 0, len(chain))
	for _, err := range chain {
		packaging = append(packaging, packagingFor(info, err))
	}
	p.packaging = packaging
}

func packagingFor(info *debug.BuildInfo, err error) PackagingData {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	pkg := ""
	if t != nil {
		pkg = t.PkgPath()
	}
	data := PackagingData{Package: pkg}
	if info == nil || pkg == "" {
		return data
	}
	if pkg == info.Main.Path || strings.HasPrefix(pkg, info.Main.Path+"/") {
		data.Module, data.Version = info.Main.Path, info.Main.Version
		return data
	}
	best := ""
	for _, dep := range info.Deps {
		if (pkg == dep.Path || strings.HasPrefix(pkg, dep.Path+"/")) && len(dep.Path) > len(best) {
			best = dep.Path
			data.Module, data.Version = dep.Path, dep.Version
		}
	}
	if best == "" && !strings.Contains(strings.SplitN(pkg, "/", 2)[0], ".") {
		data.Module = "std"
	}
	return data
}

func unwrapChain(err error) []error {
	var chain []error
	for err != nil && len(chain) < 32 {
		chain = append(chain, err)
		err = errors.Unwrap(err)
	}
	return chain
}
