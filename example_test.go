package threadpool_test

import (
	"context"
	"fmt"

	threadpool "github.com/Swind/go-thread-pool"
)

// ExampleNewPool demonstrates basic pool usage with only one import.
func ExampleNewPool() {
	pool, err := threadpool.NewPool(1)
	if err != nil {
		panic(err)
	}
	defer pool.Shutdown()

	// Tasks queue up until StartWorkers is called.
	for i := 1; i <= 3; i++ {
		n := i
		pool.Submit(threadpool.TaskFunc(func(ctx context.Context) {
			fmt.Printf("Task %d\n", n)
		}))
	}

	pool.StartWorkers()
	pool.Wait(false)

	// Output:
	// Task 1
	// Task 2
	// Task 3
}

// ExamplePool_Wait demonstrates the caller helping to drain the queue.
func ExamplePool_Wait() {
	pool, err := threadpool.NewPool(2)
	if err != nil {
		panic(err)
	}
	defer pool.Shutdown()

	results := make(chan int, 4)
	for i := 1; i <= 4; i++ {
		n := i
		pool.Submit(threadpool.TaskFunc(func(ctx context.Context) {
			results <- n * n
		}))
	}

	pool.StartWorkers()
	pool.Wait(true)
	close(results)

	sum := 0
	for r := range results {
		sum += r
	}
	fmt.Println("sum of squares:", sum)

	// Output:
	// sum of squares: 30
}
