// Package models provides the workspace data model shared by nxplus
// generators, executors, and the host CLI.
//
// # Projects
//
// A workspace maps project names to a [ProjectConfiguration]. Each project
// has a root, a source root, a [ProjectType], tags, and a set of named
// targets:
//
//	cfg := models.ProjectConfiguration{
//	    Root:        "apps/my-app",
//	    SourceRoot:  "apps/my-app/src",
//	    ProjectType: models.ProjectTypeApplication,
//	    Targets: map[string]models.TargetDefinition{
//	        "build": {Executor: "@nxplus/vue:browser"},
//	    },
//	}
//
// # Targets
//
// A [TargetDefinition] names an executor by id and carries base options plus
// named configurations that override a subset of those options.
package models
