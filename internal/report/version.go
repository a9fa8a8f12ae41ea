package report

import (
	"fmt"
	"strconv"
	"strings"
)

// versionMarker separates the build date from the test-plan number in a
// version name such as 20170401ver11_JH_003
const versionMarker = "ver"

// NextVersionName derives the version name of the new document from the
// previous header ("FCT VERSION: 20170401ver11_JH_003"): the eight
// characters before "ver" become verifyDate, everything after it becomes
// testPlan, and the trailing counter is incremented.
func NextVersionName(header, verifyDate, testPlan string) (string, error) {
	_, name, ok := strings.Cut(header, ":")
	if !ok {
		return "", fmt.Errorf("%w: version header %q has no ':'", ErrTemplateLayout, header)
	}

	comp := strings.Split(strings.TrimSpace(name), "_")
	if len(comp) < 3 {
		return "", fmt.Errorf("%w: version name %q needs three '_' separated parts", ErrTemplateLayout, name)
	}

	build := comp[0]
	idx := strings.Index(build, versionMarker)
	if idx < 8 {
		return "", fmt.Errorf("%w: version %q has no date before %q", ErrTemplateLayout, build, versionMarker)
	}

	counter, err := strconv.Atoi(comp[2])
	if err != nil {
		return "", fmt.Errorf("%w: version counter %q is not a number", ErrTemplateLayout, comp[2])
	}

	build = build[:idx-8] + verifyDate + versionMarker + testPlan
	return fmt.Sprintf("%s_%s_%03d", build, comp[1], counter+1), nil
}
