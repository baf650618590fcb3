package domain

// Task names exposed on the command line.
const (
	TaskTemplates = "templates"
	TaskStyles    = "styles"
	TaskBuild     = "build"
	TaskWiredep   = "wiredep"
)

// Task represents a unit of work in the pipeline.
type Task struct {
	Name string
	// Dependencies must complete successfully before the task runs and are
	// pulled into any run that requests the task.
	Dependencies []string
	// After lists tasks that must finish first when they are part of the same
	// run. They are not pulled in on their own.
	After []string
}

// DefaultGraph returns the pipeline's task graph.
//
// templates runs after styles whenever both are scheduled together because
// compiled layouts may reference revisioned stylesheet names.
func DefaultGraph() *Graph {
	g := NewGraph()
	for _, t := range []Task{
		{Name: TaskStyles},
		{Name: TaskTemplates, After: []string{TaskStyles}},
		{Name: TaskWiredep, After: []string{TaskTemplates}},
		{Name: TaskBuild, Dependencies: []string{TaskStyles, TaskTemplates}},
	} {
		// Names are distinct; AddTask cannot fail here.
		_ = g.AddTask(&t)
	}
	return g
}
