package app

import (
	"github.com/specialistvlad/handlergrid/internal/registry"
	"github.com/specialistvlad/handlergrid/modules/aggregate"
	"github.com/specialistvlad/handlergrid/modules/broken"
	"github.com/specialistvlad/handlergrid/modules/standard"
	"github.com/specialistvlad/handlergrid/modules/taxonomy"
)

// coreModules is the definitive list of all modules that are compiled into
// the handlergrid binary. Order matters: it is the order alter hooks run in.
var coreModules = []registry.Module{
	&broken.Module{},
	&standard.Module{},
	&aggregate.Module{},
	&taxonomy.Module{},
}
