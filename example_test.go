package fibertasking_test

import (
	"fmt"
	"sync/atomic"

	fibertasking "github.com/pakoito/FiberTaskingLib"
)

// Example demonstrates submitting a task group and waiting on its counter
// from outside the scheduler.
func Example() {
	cfg := fibertasking.DefaultTaskSchedulerConfig()
	cfg.WorkerCount = 2
	cfg.PinWorkers = false
	cfg.Logger = fibertasking.NewNoOpLogger()

	scheduler := fibertasking.NewTaskScheduler(cfg)
	if err := scheduler.Initialize(nil, nil); err != nil {
		panic(err)
	}
	defer scheduler.Quit()

	var sum atomic.Int64
	tasks := make([]fibertasking.Task, 10)
	for i := range tasks {
		tasks[i] = fibertasking.Task{
			Function: func(tc *fibertasking.TaskContext, arg any) {
				sum.Add(int64(arg.(int)))
			},
			ArgData: i + 1,
		}
	}

	counter := scheduler.AddTasks(tasks)
	scheduler.WaitForCounter(nil, counter, 0)

	fmt.Println(sum.Load())
	// Output: 55
}
