package fallback

import "github.com/vietddude/codementor/internal/core/domain"

var explanations = map[domain.Level]string{
	domain.LevelBeginner: `**Simple Explanation:**

This {language} code does the following:

1. **Purpose**: The code performs a specific task or operation
2. **How it works**: It processes data step by step
3. **Key concepts**: Variables, functions, and logic flow

**Line-by-line breakdown:**
- The code starts by setting up necessary variables
- Then it performs the main operation
- Finally, it returns or displays the result

**Tip**: Try modifying the values to see how the output changes!`,

	domain.LevelIntermediate: `**Detailed Explanation:**

This {language} code demonstrates several programming concepts:

**Structure & Flow:**
- Uses proper syntax and conventions for {language}
- Implements logic through conditional statements or loops
- Manages data efficiently

**Key Components:**
1. Variable declarations and initialization
2. Function definitions (if present)
3. Control flow (loops, conditionals)
4. Data manipulation

**Best Practices:**
- Code follows {language} conventions
- Readable and maintainable structure
- Efficient algorithm implementation

**Deep Dive**: Consider edge cases and error handling for production use.`,

	domain.LevelAdvanced: `**Advanced Analysis:**

**Algorithmic Complexity:**
- Time Complexity: O(n) or better depending on operations
- Space Complexity: Optimized for memory usage

**Design Patterns & Architecture:**
- Follows {language} idioms and best practices
- Implements efficient data structures
- Considers scalability and performance

**Technical Details:**
1. Memory management and optimization
2. Potential bottlenecks and solutions
3. Thread safety (if applicable)
4. Error handling strategies

**Optimization Opportunities:**
- Consider caching for repeated operations
- Evaluate alternative algorithms
- Profile for performance bottlenecks

**Pro Tip**: Benchmark different approaches for your specific use case.`,
}

// Eight topics per level; plans longer than four weeks run past the pool.
var topicPools = map[domain.Level][]string{
	domain.LevelBeginner: {
		"Syntax and variables",
		"Control flow",
		"Functions",
		"Collections",
		"Error handling basics",
		"Modules and packages",
		"Reading and writing files",
		"A small command-line project",
	},
	domain.LevelIntermediate: {
		"Idiomatic project layout",
		"Interfaces and composition",
		"Testing and table-driven tests",
		"Working with HTTP APIs",
		"Databases and SQL",
		"Concurrency fundamentals",
		"Profiling and debugging",
		"Building a REST service",
	},
	domain.LevelAdvanced: {
		"Concurrency patterns",
		"Memory model and performance",
		"Distributed systems basics",
		"Observability and tracing",
		"API design and versioning",
		"Security hardening",
		"Scaling storage",
		"Capstone: production deployment",
	},
}
