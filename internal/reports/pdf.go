package reports

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	colorPrimary = &props.Color{Red: 16, Green: 94, Blue: 74}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var monthNames = [...]string{
	"", "Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// RenderMonthlyPDF monta o relatório mensal em A4 para download.
func RenderMonthlyPDF(report *MonthlyReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório Mensal", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(totalsRows(report.Totais)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(corretoresHeaderRow())
	for _, r := range report.Corretores {
		m.AddRows(corretorRow(r))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("reports: gerar pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(report *MonthlyReport) core.Row {
	titulo := fmt.Sprintf("%s / %d", monthNames[report.Mes], report.Ano)

	return row.New(16).Add(
		col.New(7).Add(
			text.New("Relatório Mensal de Desempenho", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Período: %s a %s", report.From, report.To), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 4,
			}),
		),
	)
}

func totalsRows(t ReportTotals) []core.Row {
	metric := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{
				Size: 7, Color: colorGray, Top: 1,
			}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 5,
			}),
		)
	}

	return []core.Row{
		row.New(14).Add(
			metric("Novos clientes", fmt.Sprintf("%d", t.NovosClientes)),
			metric("Compromissos", fmt.Sprintf("%d", t.Appointments)),
			metric("Visitas realizadas", fmt.Sprintf("%d / %d", t.VisitasRealizadas, t.Visitas)),
			metric("Vendas", fmt.Sprintf("%d", t.Vendas)),
		),
		row.New(14).Add(
			metric("Valor vendido", "R$ "+t.ValorVendido),
			metric("Comissão", "R$ "+t.Comissao),
			metric("Taxa de conversão", fmt.Sprintf("%.2f%%", t.TaxaConversao)),
			metric("No-show de visitas", fmt.Sprintf("%d", t.VisitasNoShow)),
		),
	}
}

func corretoresHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}

	return row.New(8).Add(
		h("Corretor", 4, align.Left),
		h("Clientes", 1, align.Center),
		h("Compr.", 1, align.Center),
		h("Visitas", 1, align.Center),
		h("Vendas", 1, align.Center),
		h("Valor", 2, align.Right),
		h("Comissão", 2, align.Right),
	)
}

func corretorRow(r CorretorRow) core.Row {
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}

	return row.New(7).Add(
		cell(r.Nome, 4, align.Left),
		cell(fmt.Sprintf("%d", r.NovosClientes), 1, align.Center),
		cell(fmt.Sprintf("%d", r.Appointments), 1, align.Center),
		cell(fmt.Sprintf("%d", r.VisitasRealizadas), 1, align.Center),
		cell(fmt.Sprintf("%d", r.Vendas), 1, align.Center),
		cell("R$ "+r.ValorVendido, 2, align.Right),
		cell("R$ "+r.Comissao, 2, align.Right),
	)
}

func footerRow(report *MonthlyReport) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(
			"Gerado em "+report.GeneratedAt.Format("02/01/2006 15:04"),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
