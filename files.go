package britetopo

// files.go holds the serialization and file-system checks shared by the
// configuration, the run trace and the flow graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// isYAML reports whether a file name's extension selects yaml (rather than json) serialization
func isYAML(filename string) bool {
	pathExt := path.Ext(filename)
	return pathExt == ".yaml" || pathExt == ".YAML" || pathExt == ".yml"
}

// writeSerialized stores v to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func writeSerialized(filename string, v any) error {
	pathExt := path.Ext(filename)
	var bytes []byte
	var merr error

	if isYAML(filename) {
		bytes, merr = yaml.Marshal(v)
	} else if pathExt == ".json" || pathExt == ".JSON" {
		bytes, merr = json.MarshalIndent(v, "", "\t")
	} else {
		return fmt.Errorf("cannot tell serialization of %s from its extension", filename)
	}

	if merr != nil {
		return merr
	}

	return os.WriteFile(filename, bytes, 0o644)
}

// readSerialized deserializes into v a byte slice holding yaml or json.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read to acquire them.
func readSerialized(filename string, useYAML bool, dict []byte, v any) error {
	var err error

	// if the dict slice of bytes is empty we get them from the file whose name is an argument
	if len(dict) == 0 {
		fileInfo, serr := os.Stat(filename)
		if serr != nil || fileInfo.IsDir() {
			return fmt.Errorf("%s does not exist or cannot be read", filename)
		}
		dict, err = os.ReadFile(filename)
		if err != nil {
			return err
		}
	}

	if useYAML {
		return yaml.Unmarshal(dict, v)
	}
	return json.Unmarshal(dict, v)
}

// CheckDirectories probes the file system for the existence
// of every directory listed in the list of files.  Returns a boolean
// indicating whether all dirs are valid, and returns an aggregated error
// if any checks failed.
func CheckDirectories(dirs []string) (bool, error) {
	// make sure that every directory name included exists
	failures := []string{}

	// for every offered (non-empty) directory
	for _, dir := range dirs {
		if len(dir) == 0 {
			continue
		}

		fileInfo, err := os.Stat(dir)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s not reachable", dir))
			continue
		}
		if !fileInfo.IsDir() {
			failures = append(failures, fmt.Sprintf("%s not a directory", dir))
		}
	}
	if len(failures) == 0 {
		return true, nil
	}

	return false, errors.New(strings.Join(failures, ","))
}

// CheckReadableFiles probes the file system to ensure that every
// one of the argument filenames exists and is readable
func CheckReadableFiles(names []string) (bool, error) {
	return CheckFiles(names, true)
}

// CheckOutputFiles probes the file system to ensure that every
// argument filename can be written, i.e., that its directory exists.
func CheckOutputFiles(names []string) (bool, error) {
	return CheckFiles(names, false)
}

// CheckFiles probes the file system for permitted access to all the
// argument filenames, optionally checking also for the existence
// of those files for the purposes of reading them.  Empty names are skipped.
func CheckFiles(names []string, checkExistence bool) (bool, error) {
	errs := make([]error, 0)

	for _, name := range names {
		if len(name) == 0 {
			continue
		}

		// split off the directory portion of the path
		directory, _ := filepath.Split(name)
		if len(directory) == 0 {
			directory = "."
		}
		if _, err := os.Stat(directory); err != nil {
			errs = append(errs, err)
			continue
		}

		// if required, check for the existence of the file itself
		if checkExistence {
			if _, err := os.Stat(name); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) == 0 {
		return true, nil
	}
	return false, ReportErrs(errs)
}
