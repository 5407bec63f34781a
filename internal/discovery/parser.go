package discovery

import (
	"fmt"
	"os"
	"regexp"
)

// Parser parses PHP test files to extract test classes and case names.
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

var (
	// Methods starting with "test", with any combination of modifiers:
	//   public function testCreateUser()
	//   function test_user_login()
	//   final protected static function testSomething()
	testMethodPattern = regexp.MustCompile(`(?m)^\s*(?:(?:public|protected|private|static|final)\s+)*function\s+(test\w+)\s*\(`)

	// Methods annotated with @test in the preceding docblock:
	//   /** @test */
	//   public function it_registers_a_user()
	annotatedPattern = regexp.MustCompile(`(?ms)@test\b.*?function\s+(\w+)\s*\(`)

	classPattern = regexp.MustCompile(`(?m)^\s*(?:final\s+|abstract\s+)?class\s+(\w+)`)
)

// TestClass is one test class in a file with its cases in declaration order.
type TestClass struct {
	Name  string
	Cases []string
}

// ParseFile extracts the test class and its test-case method names from a
// PHP test file, preserving source declaration order.
func (p *Parser) ParseFile(filePath string) (*TestClass, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	src := string(content)

	tc := &TestClass{}
	if m := classPattern.FindStringSubmatch(src); len(m) > 1 {
		tc.Name = m[1]
	}

	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	seen := make(map[string]bool)

	for _, idx := range testMethodPattern.FindAllStringSubmatchIndex(src, -1) {
		name := src[idx[2]:idx[3]]
		if !seen[name] {
			seen[name] = true
			hits = append(hits, hit{pos: idx[2], name: name})
		}
	}
	for _, idx := range annotatedPattern.FindAllStringSubmatchIndex(src, -1) {
		name := src[idx[2]:idx[3]]
		if !seen[name] {
			seen[name] = true
			hits = append(hits, hit{pos: idx[2], name: name})
		}
	}

	// Both passes scan forward, but annotated methods found after plain
	// test-prefixed ones must still come out in source order.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	for _, h := range hits {
		tc.Cases = append(tc.Cases, h.name)
	}
	return tc, nil
}

// FindTestCases returns just the case names of a file, in declaration order.
func (p *Parser) FindTestCases(filePath string) ([]string, error) {
	tc, err := p.ParseFile(filePath)
	if err != nil {
		return nil, err
	}
	return tc.Cases, nil
}
