package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/logreport/pkg/config"
)

const accessLine = `93.180.71.3 - - [17/May/2015:08:05:32 +0000] "GET /downloads/product_1 HTTP/1.1" 304 0 "-" "Debian APT-HTTP/1.3 (0.8.16~exp12ubuntu10.21)"`

func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "access.log"), []byte(accessLine+"\n"), 0o644))
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv(config.EnvBaseDir, dir)
	t.Setenv(config.EnvLogLevel, "")
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_NoArguments(t *testing.T) {
	setupEnv(t)

	code, stdout, stderr := run(t)
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Ошибка: Аргументы отсутствуют.\n", stderr)
}

func TestRun_MissingPath(t *testing.T) {
	setupEnv(t)

	code, stdout, stderr := run(t, "--format", "adoc")
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Ошибка: Не указан обязательный аргумент --path.\n", stderr)
}

func TestRun_Report(t *testing.T) {
	setupEnv(t)

	code, stdout, stderr := run(t, "--path", "access.log")
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.True(t, strings.HasPrefix(stdout, "#### Общая информация\n"))
	assert.Contains(t, stdout, "| Количество запросов     | 1 \n")
}

func TestRun_FlagNamesAreCaseInsensitive(t *testing.T) {
	setupEnv(t)

	code, stdout, _ := run(t, "--PATH", "access.log", "--Format", "ADOC")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "== Общая информация\n"))
}

func TestRun_UnknownFlagsAndPositionalsIgnored(t *testing.T) {
	setupEnv(t)

	code, stdout, stderr := run(t, "--path", "access.log", "--verbose", "extra")
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Общая информация")
}

func TestRun_EqualsSyntax(t *testing.T) {
	setupEnv(t)

	code, stdout, _ := run(t, "--path=access.log", "--order=asc")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "| Количество запросов     | 1 \n")
}

func TestRun_UnsupportedFormat(t *testing.T) {
	setupEnv(t)

	code, stdout, stderr := run(t, "--path", "access.log", "--format", "html")
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Ошибка: Неподдерживаемый формат: html\n", stderr)
}

func TestRun_FileNotFound(t *testing.T) {
	setupEnv(t)

	code, stdout, stderr := run(t, "--path", "nothing/*")
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Ошибка: Файл(-ы) по пути nothing/* не найден(-ы).\n", stderr)
}

func TestRun_Version(t *testing.T) {
	setupEnv(t)

	code, stdout, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "logreport dev\n", stdout)
}

func TestRun_SubcommandNameAfterFlagsIsPositional(t *testing.T) {
	setupEnv(t)

	for _, name := range []string{"version", "validate"} {
		t.Run(name, func(t *testing.T) {
			code, stdout, stderr := run(t, "--path", "access.log", name)
			assert.Equal(t, 0, code)
			assert.Empty(t, stderr)
			assert.True(t, strings.HasPrefix(stdout, "#### Общая информация\n"))
		})
	}
}

func TestRun_EmptyFilterValueStillFilters(t *testing.T) {
	setupEnv(t)

	code, stdout, stderr := run(t, "--path", "access.log", "--filter-field", "referer", "--filter-value", "")
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "filterField = referer\nfilterValue = \n")
	assert.True(t, strings.HasSuffix(stderr, " не найдены.\n"))

	code, stdout, _ = run(t, "--path", "access.log", "--filter-field", "method", "--filter-value", "")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "| Количество запросов     | 1 \n")
}

func TestRun_Validate(t *testing.T) {
	setupEnv(t)

	code, stdout, _ := run(t, "validate", "--path", "access.log")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Configuration valid!")
	assert.Contains(t, stdout, "Sampled lines: 1, matching the grammar: 1")
}

func TestNewRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand(&bytes.Buffer{}, &bytes.Buffer{})

	for _, name := range []string{"path", "from", "to", "format", "filter-field", "filter-value", "order", "webhook-url", "webhook-token"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
	for _, name := range []string{"config", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing persistent flag %s", name)
	}
}
