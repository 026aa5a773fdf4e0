package britetopo

// config.go describes a conversion run: the files it reads and writes, and the
// numeric parameters of the extension, role split and region clustering

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to the upper-cased configuration keys to name the environment
// variables that override them, e.g. BRITETOPO_ONEDEGN
const EnvPrefix = "BRITETOPO"

// TopoGenCfg holds every input of a conversion run.  It is serialized to and from yaml or json.
// The validate tags give the constraints Validate checks.
type TopoGenCfg struct {
	// Name identifies the run in logs and in the run trace
	Name string `json:"name" yaml:"name"`

	// input BRITE topology
	BriteFile string `json:"britefile" yaml:"britefile" validate:"required"`

	// BRITE topology with synthetic nodes added
	ExtendedFile string `json:"extendedfile" yaml:"extendedfile" validate:"required,nefield=BriteFile"`

	// topology table output
	TopoFile string `json:"topofile" yaml:"topofile" validate:"required"`

	// layout (coordinates and regions) output
	LayoutFile string `json:"layoutfile" yaml:"layoutfile" validate:"required"`

	// node role output
	NodeTypeFile string `json:"nodetypefile" yaml:"nodetypefile" validate:"required"`

	// optional run trace, yaml or json.  The trace is gathered only when this is given.
	TraceFile string `json:"tracefile" yaml:"tracefile"`

	// OneDegN is the number of degree-1 nodes (receivers plus sources) added to the topology
	OneDegN int `json:"onedegn" yaml:"onedegn" validate:"gte=0"`

	// SwRatio is the fraction of non-border nodes, lowest degree first, eligible as access switches
	SwRatio float64 `json:"swratio" yaml:"swratio" validate:"gt=0,lte=1"`

	// RecvRatio is the fraction of degree-1 nodes made receivers, the rest are sources
	RecvRatio float64 `json:"recvratio" yaml:"recvratio" validate:"gt=0,lt=1"`

	// Regions is the number of control regions each AS is clustered into
	Regions int `json:"regions" yaml:"regions" validate:"gte=1"`

	Seed     int     `json:"seed" yaml:"seed" validate:"gte=0"`
	CoordMax int     `json:"coordmax" yaml:"coordmax" validate:"gte=0"`
	Capacity float64 `json:"capacity" yaml:"capacity"`
}

// cfgValidate checks TopoGenCfg structs, naming fields by their yaml keys
var cfgValidate = newCfgValidate()

func newCfgValidate() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// comparison symbols of the validate tags used on TopoGenCfg
var tagSymbols = map[string]string{"gt": ">", "gte": ">=", "lt": "<", "lte": "<="}

// CreateTopoGenCfg is a constructor.  File names are left empty, parameters take their
// usual values.
func CreateTopoGenCfg(name string) *TopoGenCfg {
	opts := DefaultExtendOpts()
	return &TopoGenCfg{
		Name:      name,
		OneDegN:   400,
		SwRatio:   0.8,
		RecvRatio: 0.8,
		Regions:   6,
		Seed:      0,
		CoordMax:  opts.CoordMax,
		Capacity:  opts.Capacity,
	}
}

// ReadTopoGenCfg deserializes a byte slice holding a representation of a TopoGenCfg struct.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read
// to acquire them.  Parameters absent from the representation keep their default values.
func ReadTopoGenCfg(filename string, useYAML bool, dict []byte) (*TopoGenCfg, error) {
	cfg := CreateTopoGenCfg("")
	if err := readSerialized(filename, useYAML, dict, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteToFile stores the TopoGenCfg struct to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (cfg *TopoGenCfg) WriteToFile(filename string) error {
	return writeSerialized(filename, *cfg)
}

// ExtendOpts gives the constants used for synthetic rows
func (cfg *TopoGenCfg) ExtendOpts() ExtendOpts {
	return ExtendOpts{CoordMax: cfg.CoordMax, Capacity: cfg.Capacity}
}

// Validate checks every parameter and file name, returning one error that reports all problems found
func (cfg *TopoGenCfg) Validate() error {
	err := cfgValidate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fieldError(fe))
	}
	return ReportErrs(errs)
}

// fieldError words one failed constraint of a TopoGenCfg
func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s not given", fe.Field())
	case "nefield":
		return fmt.Errorf("%s would overwrite %s", fe.Field(), strings.ToLower(fe.Param()))
	}
	if symbol, present := tagSymbols[fe.Tag()]; present {
		return fmt.Errorf("%s %v must be %s %s", fe.Field(), fe.Value(), symbol, fe.Param())
	}
	return fmt.Errorf("%s fails %s", fe.Field(), fe.Tag())
}

// NewTopoGenViper creates a viper instance holding the defaults of CreateTopoGenCfg, overridden
// by environment variables carrying EnvPrefix.  A configuration file, when one is named, is read
// over the defaults; values set later with Set (e.g. from the command line) override everything.
func NewTopoGenViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	defaults := CreateTopoGenCfg("brite2topo")
	v.SetDefault("name", defaults.Name)
	v.SetDefault("onedegn", defaults.OneDegN)
	v.SetDefault("swratio", defaults.SwRatio)
	v.SetDefault("recvratio", defaults.RecvRatio)
	v.SetDefault("regions", defaults.Regions)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("coordmax", defaults.CoordMax)
	v.SetDefault("capacity", defaults.Capacity)
	for _, key := range []string{"britefile", "extendedfile", "topofile", "layoutfile", "nodetypefile", "tracefile"} {
		v.SetDefault(key, "")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(cfgFile) > 0 {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading configuration %s: %w", cfgFile, err)
		}
	}
	return v, nil
}

// TopoGenCfgFromViper gathers a TopoGenCfg from the keys of a viper instance.  Numeric keys may hold
// text (from the command line or the environment); text that is not a number is an error.
func TopoGenCfgFromViper(v *viper.Viper) (*TopoGenCfg, error) {
	cfg := &TopoGenCfg{
		Name:         v.GetString("name"),
		BriteFile:    v.GetString("britefile"),
		ExtendedFile: v.GetString("extendedfile"),
		TopoFile:     v.GetString("topofile"),
		LayoutFile:   v.GetString("layoutfile"),
		NodeTypeFile: v.GetString("nodetypefile"),
		TraceFile:    v.GetString("tracefile"),
	}

	errs := []error{}
	intKeys := []struct {
		key string
		dst *int
	}{{"onedegn", &cfg.OneDegN}, {"regions", &cfg.Regions}, {"seed", &cfg.Seed}, {"coordmax", &cfg.CoordMax}}
	for _, ik := range intKeys {
		n, err := cast.ToIntE(v.Get(ik.key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %v is not an integer", ik.key, v.Get(ik.key)))
		}
		*ik.dst = n
	}

	floatKeys := []struct {
		key string
		dst *float64
	}{{"swratio", &cfg.SwRatio}, {"recvratio", &cfg.RecvRatio}, {"capacity", &cfg.Capacity}}
	for _, fk := range floatKeys {
		f, err := cast.ToFloat64E(v.Get(fk.key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %v is not a number", fk.key, v.Get(fk.key)))
		}
		*fk.dst = f
	}

	if err := ReportErrs(errs); err != nil {
		return nil, err
	}
	return cfg, nil
}
