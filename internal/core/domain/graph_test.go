package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestGraph_AddTask(t *testing.T) {
	g := domain.NewGraph()
	task := domain.Task{Name: "task1"}

	require.NoError(t, g.AddTask(&task))

	err := g.AddTask(&task)
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, domain.ErrTaskAlreadyExists.Error(), zErr.Message())
	assert.Equal(t, "task1", zErr.Metadata()["task_name"])
	assert.Equal(t, 1, g.TaskCount())
}

func TestGraph_Validate_Cycle(t *testing.T) {
	tests := []struct {
		name  string
		tasks []domain.Task
		cycle string
	}{
		{
			name:  "self dependency",
			tasks: []domain.Task{{Name: "A", Dependencies: []string{"A"}}},
			cycle: "A -> A",
		},
		{
			name: "dependency cycle",
			tasks: []domain.Task{
				{Name: "A", Dependencies: []string{"B"}},
				{Name: "B", Dependencies: []string{"A"}},
			},
			cycle: "A -> B -> A",
		},
		{
			name: "ordering edges count",
			tasks: []domain.Task{
				{Name: "A", After: []string{"C"}},
				{Name: "B", Dependencies: []string{"A"}},
				{Name: "C", After: []string{"B"}},
			},
			cycle: "A -> C -> B -> A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewGraph()
			for _, task := range tt.tasks {
				require.NoError(t, g.AddTask(&task))
			}

			err := g.Validate()
			require.Error(t, err)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.Equal(t, domain.ErrCycleDetected.Error(), zErr.Message())
			assert.Equal(t, tt.cycle, zErr.Metadata()["cycle"])
		})
	}
}

func TestGraph_Validate_MissingDependency(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(&domain.Task{Name: "A", Dependencies: []string{"ghost"}}))

	err := g.Validate()
	require.ErrorContains(t, err, domain.ErrMissingDependency.Error())
}

func TestGraph_Walk(t *testing.T) {
	g := domain.NewGraph()
	// A -> B -> C, execution order C, B, A.
	require.NoError(t, g.AddTask(&domain.Task{Name: "A", Dependencies: []string{"B"}}))
	require.NoError(t, g.AddTask(&domain.Task{Name: "B", Dependencies: []string{"C"}}))
	require.NoError(t, g.AddTask(&domain.Task{Name: "C"}))
	require.NoError(t, g.Validate())

	var executed []string
	for task := range g.Walk() {
		executed = append(executed, task.Name)
	}
	assert.Equal(t, []string{"C", "B", "A"}, executed)
}

func TestGraph_Walk_StopsEarly(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(&domain.Task{Name: "A"}))
	require.NoError(t, g.AddTask(&domain.Task{Name: "B"}))
	require.NoError(t, g.Validate())

	count := 0
	for range g.Walk() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestDefaultGraph(t *testing.T) {
	g := domain.DefaultGraph()
	require.NoError(t, g.Validate())

	assert.Equal(t, []string{
		domain.TaskBuild, domain.TaskStyles, domain.TaskTemplates, domain.TaskWiredep,
	}, g.Names())

	var order []string
	for task := range g.Walk() {
		order = append(order, task.Name)
	}
	assert.Less(t, slices.Index(order, domain.TaskStyles), slices.Index(order, domain.TaskTemplates))
	assert.Less(t, slices.Index(order, domain.TaskTemplates), slices.Index(order, domain.TaskWiredep))

	assert.Equal(t, []string{domain.TaskBuild, domain.TaskTemplates}, g.Dependents(domain.TaskStyles))
	assert.Empty(t, g.Dependents(domain.TaskBuild))

	build, ok := g.GetTask(domain.TaskBuild)
	require.True(t, ok)
	assert.Equal(t, []string{domain.TaskStyles, domain.TaskTemplates}, build.Dependencies)
}
