package pools

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"healthcare/pkg/plan/domain/model"
)

// catalogFile is the on-disk layout:
//
//	diet:
//	  <goal>:
//	    <meal slot>:
//	      <bucket>: [items]
//	exercise:
//	  <goal>:
//	    <bucket>: [items]
type catalogFile struct {
	Diet     map[string]map[string]model.Buckets `yaml:"diet"`
	Exercise map[string]model.Buckets            `yaml:"exercise"`
}

func LoadCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Catalog{}, errors.Wrapf(err, "read pools file %s", path)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a pool catalog. Goal keys are normalized.
func ParseCatalog(data []byte) (model.Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return model.Catalog{}, errors.Wrap(model.ErrInvalidCatalog, err.Error())
	}

	catalog := model.Catalog{
		Diet:     make(map[string]model.Pool, len(file.Diet)),
		Exercise: make(map[string]model.Pool, len(file.Exercise)),
	}
	for goal, slots := range file.Diet {
		goal = model.NormalizeGoal(goal)
		if _, ok := catalog.Diet[goal]; ok {
			return model.Catalog{}, errors.Wrapf(model.ErrInvalidCatalog, "duplicate diet goal %q", goal)
		}
		catalog.Diet[goal] = model.Pool{Goal: goal, Slots: slots}
	}
	for goal, buckets := range file.Exercise {
		goal = model.NormalizeGoal(goal)
		if _, ok := catalog.Exercise[goal]; ok {
			return model.Catalog{}, errors.Wrapf(model.ErrInvalidCatalog, "duplicate exercise goal %q", goal)
		}
		catalog.Exercise[goal] = model.Pool{
			Goal:  goal,
			Slots: map[string]model.Buckets{model.WorkoutSlot: buckets},
		}
	}

	if err := catalog.Validate(); err != nil {
		return model.Catalog{}, err
	}
	return catalog, nil
}
