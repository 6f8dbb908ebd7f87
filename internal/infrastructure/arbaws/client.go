// Package arbaws implementa el cliente del web service DFE de ARBA para la
// consulta de alícuotas del padrón de IIBB.
package arbaws

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/arba-api/internal/application/census"
	"github.com/jhoicas/arba-api/pkg/config"
)

// ── Constantes de entorno ──────────────────────────────────────────────────────

const (
	consultaURLTest = "https://dfe.test.arba.gov.ar/DomicilioElectronico/SeguridadCliente/dfeServicioConsulta.do"
	consultaURLProd = "https://dfe.arba.gov.ar/DomicilioElectronico/SeguridadCliente/dfeServicioConsulta.do"

	consultaFilename = "DFEServicioConsulta.xml"
	fechaWire        = "20060102"
)

// ── Implementación HTTP ────────────────────────────────────────────────────────

// Client consulta el padrón de alícuotas de ARBA. El servicio recibe un POST
// multipart con usuario (CUIT del agente), Clave CIT y un archivo XML de
// consulta; responde XML en ISO-8859-1. Implementa census.Client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	user       string // CUIT del agente, sin guiones
	password   string // Clave CIT
}

// NewClient construye el cliente según el modo de certificación configurado.
// El WS de ARBA puede tardar varios segundos por contribuyente, de ahí el
// timeout generoso.
func NewClient(cfg config.ARBAConfig, agentCUIT string) (*Client, error) {
	var baseURL string
	switch cfg.ModoCert {
	case config.ModoCertHomologacion:
		baseURL = consultaURLTest
	case config.ModoCertProduccion:
		baseURL = consultaURLProd
	default:
		return nil, fmt.Errorf("arbaws: modo de certificación %q inválido (usar %q o %q)",
			cfg.ModoCert, config.ModoCertHomologacion, config.ModoCertProduccion)
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		user:       agentCUIT,
		password:   cfg.Password,
	}, nil
}

// ConsultarContribuyente consulta las alícuotas de un CUIT para la ventana
// [desde, hasta]. Cuando el padrón no tiene datos para ese CUIT en el período
// (respuesta sin contribuyente, o error de negocio de tipo DATO como "CUIT
// inexistente") devuelve (nil, nil): es un caso por-CUIT, no un fallo de la
// corrida. Los errores de servicio (autenticación, protocolo) sí son error.
func (c *Client) ConsultarContribuyente(ctx context.Context, cuit string, desde, hasta time.Time) (*census.Contribuyente, error) {
	payload, err := buildConsulta(cuit, desde, hasta)
	if err != nil {
		return nil, err
	}

	body, contentType, err := multipartForm(c.user, c.password, payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, body)
	if err != nil {
		return nil, fmt.Errorf("arbaws: crear request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("arbaws: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("arbaws: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return nil, fmt.Errorf("arbaws: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arbaws: HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	return parseRespuesta(rawBody)
}

// buildConsulta arma el XML CONSULTA-ALICUOTA codificado en ISO-8859-1,
// que es el juego de caracteres que el servicio espera.
func buildConsulta(cuit string, desde, hasta time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="ISO-8859-1"`)

	root := doc.CreateElement("CONSULTA-ALICUOTA")
	root.CreateElement("fechaDesde").SetText(desde.Format(fechaWire))
	root.CreateElement("fechaHasta").SetText(hasta.Format(fechaWire))
	root.CreateElement("cantidadContribuyentes").SetText("1")

	list := root.CreateElement("contribuyentes")
	list.CreateAttr("class", "list")
	list.CreateElement("contribuyente").
		CreateElement("cuitContribuyente").
		SetText(cuit)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("arbaws: serializar consulta: %w", err)
	}
	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("arbaws: codificar consulta: %w", err)
	}
	return encoded, nil
}

// multipartForm arma el cuerpo multipart con usuario, clave y archivo de consulta.
func multipartForm(user, password string, payload []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("user", user); err != nil {
		return nil, "", fmt.Errorf("arbaws: armar formulario: %w", err)
	}
	if err := w.WriteField("password", password); err != nil {
		return nil, "", fmt.Errorf("arbaws: armar formulario: %w", err)
	}
	part, err := w.CreateFormFile("file", consultaFilename)
	if err != nil {
		return nil, "", fmt.Errorf("arbaws: armar formulario: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", fmt.Errorf("arbaws: armar formulario: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("arbaws: armar formulario: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// tipoErrorDato clasifica los errores de negocio referidos al dato consultado
// (CUIT inexistente en el padrón, período sin datos). Se distinguen de los
// errores de servicio: un dato ausente no corta la sincronización.
const tipoErrorDato = "DATO"

// parseRespuesta desempaqueta la respuesta del padrón. La raíz puede ser
// RESPUESTA o RESPUESTA-ALICUOTA según el ambiente. Sin datos para el CUIT
// devuelve (nil, nil).
func parseRespuesta(rawBody []byte) (*census.Contribuyente, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch charset {
		case "ISO-8859-1", "iso-8859-1":
			return charmap.ISO8859_1.NewDecoder().Reader(input), nil
		}
		return input, nil
	}
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("arbaws: parsear respuesta: %w (cuerpo: %s)", err, string(rawBody))
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("arbaws: respuesta vacía: %s", string(rawBody))
	}

	// El servicio responde 200 con un bloque de error. Los de tipo DATO
	// ("CUIT inexistente en el padrón") equivalen a una respuesta vacía.
	if codigo := childText(root, "codigoError"); codigo != "" {
		if childText(root, "tipoError") == tipoErrorDato {
			return nil, nil
		}
		return nil, fmt.Errorf("arbaws: error %s del padrón (%s): %s",
			codigo, childText(root, "tipoError"), childText(root, "mensajeError"))
	}

	contrib := root.FindElement("//contribuyente")
	if contrib == nil {
		return nil, nil
	}

	return &census.Contribuyente{
		CUIT:               childText(contrib, "cuitContribuyente"),
		AlicuotaPercepcion: childText(contrib, "alicuotaPercepcion"),
		AlicuotaRetencion:  childText(contrib, "alicuotaRetencion"),
	}, nil
}

func childText(parent *etree.Element, tag string) string {
	if el := parent.FindElement(".//" + tag); el != nil {
		return el.Text()
	}
	return ""
}
