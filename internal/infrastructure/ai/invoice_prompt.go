package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
)

// invoiceSystemPrompt define el rol del modelo y el formato de salida para facturas de proveedor.
const invoiceSystemPrompt = `Eres un asistente de bodega de una marroquinería. Lees facturas de proveedores (foto o PDF).
Devuelve ÚNICAMENTE un objeto JSON válido (sin markdown, sin bloques de código) con esta estructura exacta:
{
  "invoice_number": "<número de factura como string>",
  "supplier": "<razón social del proveedor>",
  "date": "<fecha en formato YYYY-MM-DD>",
  "total_amount": <número>,
  "confidence": <número decimal entre 0.0 y 1.0>,
  "items": [
    {"sku": "<código del producto o vacío si no aparece>", "quantity": <entero>, "unit_price": <número>, "description": "<texto de la línea>"}
  ]
}

Reglas:
- Si un campo no es legible usa "" o 0; nunca inventes SKUs.
- quantity es la cantidad de unidades recibidas, entero positivo.
- confidence: 0.9–1.0 = lectura clara, 0.7–0.89 = probable, <0.7 = dudosa.`

const invoiceUserPrompt = "Extrae los datos de esta factura de proveedor."

// ocrPayload JSON que esperamos recibir del modelo. Las cantidades llegan a veces como 3.0.
type ocrPayload struct {
	InvoiceNumber string          `json:"invoice_number"`
	Supplier      string          `json:"supplier"`
	Date          string          `json:"date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Confidence    float64         `json:"confidence"`
	Items         []struct {
		SKU         string          `json:"sku"`
		Quantity    float64         `json:"quantity"`
		UnitPrice   decimal.Decimal `json:"unit_price"`
		Description string          `json:"description"`
	} `json:"items"`
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// parseOCRText convierte el texto libre del modelo en un OCRResult normalizado.
func parseOCRText(rawText string) (*dto.OCRResult, error) {
	cleanJSON := extractJSON(rawText)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", rawText)
	}
	var p ocrPayload
	if err := json.Unmarshal([]byte(cleanJSON), &p); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de factura: %w (JSON extraído: %s)", err, cleanJSON)
	}

	confidence := p.Confidence
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	out := &dto.OCRResult{
		InvoiceNumber: strings.TrimSpace(p.InvoiceNumber),
		Supplier:      strings.TrimSpace(p.Supplier),
		Date:          strings.TrimSpace(p.Date),
		TotalAmount:   p.TotalAmount,
		Confidence:    confidence,
		Items:         make([]dto.OCRItem, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, dto.OCRItem{
			SKU:         strings.ToUpper(strings.TrimSpace(it.SKU)),
			Quantity:    int64(math.Round(it.Quantity)),
			UnitPrice:   it.UnitPrice,
			Description: strings.TrimSpace(it.Description),
		})
	}
	return out, nil
}

// extractJSON extrae el primer objeto JSON bien formado de un texto libre.
// Estrategia en dos pasos:
//  1. Eliminar bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usar regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
