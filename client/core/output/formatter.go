// Package output 负责命令行结果的输出格式
//
// 数据写到 writer(默认 stdout)，提示信息写到 logWriter(默认 stderr)，
// 这样 JSON 输出可以直接交给其他程序处理。
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pterm/pterm"
)

// Format 输出格式
type Format string

const (
	// FormatJSON 紧凑 JSON
	FormatJSON Format = "json"
	// FormatPretty 缩进 JSON
	FormatPretty Format = "pretty"
	// FormatTable 表格
	FormatTable Format = "table"
)

// ParseFormat 解析格式名
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatPretty, FormatTable:
		return Format(s), nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (json, pretty, table)", s)
	}
}

// Tabular 可以按表格输出的数据，第一行为表头
type Tabular interface {
	TableRows() [][]string
}

// Formatter 输出格式化器
type Formatter struct {
	format    Format
	writer    io.Writer
	logWriter io.Writer
	silent    bool
}

// NewFormatter 创建格式化器
func NewFormatter(format Format, writer io.Writer) *Formatter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Formatter{format: format, writer: writer, logWriter: os.Stderr}
}

// SetLogWriter 设置提示信息的输出目标
func (f *Formatter) SetLogWriter(writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	f.logWriter = writer
}

// SetSilent 静默模式下不输出数据与提示，错误除外
func (f *Formatter) SetSilent(silent bool) {
	f.silent = silent
}

// Format 当前格式
func (f *Formatter) Format() Format { return f.format }

// Print 按格式输出数据
func (f *Formatter) Print(data interface{}) error {
	if f.silent {
		return nil
	}
	switch f.format {
	case FormatJSON:
		return f.printJSON(data, false)
	case FormatTable:
		return f.printTable(data)
	default:
		return f.printJSON(data, true)
	}
}

func (f *Formatter) printJSON(data interface{}, pretty bool) error {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := fmt.Fprintln(f.writer, string(out)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// printTable 表格输出，无法表格化的数据退回缩进 JSON
func (f *Formatter) printTable(data interface{}) error {
	var rows [][]string
	switch v := data.(type) {
	case Tabular:
		rows = v.TableRows()
	case map[string]string:
		rows = keyValueRows(v)
	default:
		return f.printJSON(data, true)
	}
	if len(rows) <= 1 {
		_, err := fmt.Fprintln(f.writer, "(empty)")
		return err
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(rows).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	if _, err := fmt.Fprintln(f.writer, rendered); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func keyValueRows(m map[string]string) [][]string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := [][]string{{"字段", "值"}}
	for _, k := range keys {
		rows = append(rows, []string{k, m[k]})
	}
	return rows
}

func (f *Formatter) message(p pterm.PrefixPrinter, msg string) {
	_, _ = fmt.Fprintln(f.logWriter, p.Sprint(msg))
}

// PrintSuccess 输出成功提示
func (f *Formatter) PrintSuccess(message string) {
	if !f.silent {
		f.message(pterm.Success, message)
	}
}

// PrintWarning 输出警告提示
func (f *Formatter) PrintWarning(message string) {
	if !f.silent {
		f.message(pterm.Warning, message)
	}
}

// PrintInfo 输出普通提示
func (f *Formatter) PrintInfo(message string) {
	if !f.silent {
		f.message(pterm.Info, message)
	}
}

// PrintError 输出错误，静默模式下也输出
func (f *Formatter) PrintError(err error) {
	f.message(pterm.Error, err.Error())
}

// ErrorOutput 错误输出结构
type ErrorOutput struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody 错误内容
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// NewErrorOutput 创建错误输出
func NewErrorOutput(code, message string, details interface{}) *ErrorOutput {
	return &ErrorOutput{Error: ErrorBody{Code: code, Message: message, Details: details}}
}

// DataOutput 成功输出结构
type DataOutput struct {
	Data interface{} `json:"data"`
}
