package page

import "html/template"

var previewTmpl = template.Must(template.New("preview").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>Preview v{{.Version}}</title>
    <style>
      body { margin: 0; font-family: ui-sans-serif, system-ui, sans-serif; background: #fafaf9; color: #1c1917; }
      main { max-width: 720px; margin: 48px auto; padding: 0 24px; }
      h1 { font-size: 28px; margin-bottom: 4px; }
      .meta { color: #78716c; font-size: 13px; margin-bottom: 24px; }
      li { margin: 8px 0; line-height: 1.5; }
    </style>
  </head>
  <body>
    <main>
      <h1>Local preview</h1>
      <div class="meta">session {{.SessionID}} &middot; version {{.Version}}{{if .TemplateURL}} &middot; template {{.TemplateURL}}{{end}}</div>
      {{if .Prompts}}
      <ol>
        {{range .Prompts}}<li>{{.}}</li>{{end}}
      </ol>
      {{else}}
      <p>Starter template loaded. Send a message to customize it.</p>
      {{end}}
    </main>
  </body>
</html>`))

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{.Theme.Title}}</title>
    <style>
      * { box-sizing: border-box; }
      html, body { height: 100%; margin: 0; }
      body { display: flex; font-family: ui-sans-serif, system-ui, -apple-system, "Segoe UI", Roboto, sans-serif; background: #ffffff; color: #0a0a0a; }
      .panel { width: 50%; display: flex; flex-direction: column; }
      .chat { border-right: 1px solid #e5e5e5; }
      header { height: 64px; padding: 0 16px; display: flex; align-items: center; justify-content: space-between; border-bottom: 1px solid #e5e5e5; background: #fafafa; }
      header h1 { font-size: 20px; font-weight: 600; margin: 0; }
      header .sub { font-size: 14px; color: #737373; }
      #transcript { flex: 1; overflow-y: auto; padding: 24px; display: flex; flex-direction: column; gap: 12px; }
      .empty { text-align: center; margin-top: 48px; }
      .empty h2 { font-size: 28px; margin: 0 0 8px; }
      .empty p { color: #737373; font-size: 18px; margin: 0; }
      .msg { max-width: 80%; padding: 10px 14px; border-radius: 12px; line-height: 1.5; white-space: pre-wrap; }
      .msg.user { align-self: flex-end; background: #171717; color: #fafafa; }
      .msg.assistant { align-self: flex-start; background: #f5f5f5; }
      .composer { border-top: 1px solid #e5e5e5; padding: 24px; background: #fafafa; }
      #suggestions { display: flex; flex-wrap: wrap; gap: 8px; margin-bottom: 16px; }
      #suggestions button { border: 1px solid #e5e5e5; background: #fff; border-radius: 999px; padding: 6px 12px; font-size: 13px; cursor: pointer; }
      form { display: flex; gap: 8px; max-width: 42rem; margin: 0 auto; }
      textarea { flex: 1; min-height: 60px; padding: 10px 12px; border: 1px solid #d4d4d4; border-radius: 8px; font: inherit; resize: vertical; }
      form button { padding: 0 18px; border: none; border-radius: 8px; background: #171717; color: #fff; cursor: pointer; }
      form button:disabled { opacity: 0.5; cursor: not-allowed; }
      .preview-bar { height: 64px; padding: 12px 16px; border-bottom: 1px solid #e5e5e5; background: #fafafa; }
      .preview-bar input { width: 100%; height: 40px; padding: 0 12px; border: 1px solid #e5e5e5; border-radius: 8px; background: #fff; font: inherit; color: #404040; }
      iframe { flex: 1; width: 100%; border: 0; background: #fff; }
    </style>
  </head>
  <body>
    <section class="panel chat">
      <header>
        <h1>{{.Theme.Title}}</h1>
        <div class="sub">{{.Theme.Subtitle}}</div>
      </header>
      <div id="transcript">
        <div class="empty" id="empty">
          <h2>{{.Theme.Heading}}</h2>
          <p>{{.Theme.Tagline}}</p>
        </div>
      </div>
      <div class="composer">
        <div id="suggestions">
          {{range .Theme.Suggestions}}<button type="button" data-suggestion="{{.}}">{{.}}</button>{{end}}
        </div>
        <form id="composer">
          <textarea id="input" placeholder="{{.Theme.Placeholder}}"></textarea>
          <button id="send" type="submit" disabled>Send</button>
        </form>
      </div>
    </section>
    <section class="panel">
      <div class="preview-bar">
        <input id="preview-url" readonly placeholder="{{.Theme.PreviewPlaceholder}}" />
      </div>
      <iframe id="preview" title="Preview"></iframe>
    </section>
    <script>
    (function () {
      const theme = {{.Theme}};
      const state = { transcript: [], session: null, inFlight: false };

      const transcriptEl = document.getElementById("transcript");
      const emptyEl = document.getElementById("empty");
      const suggestionsEl = document.getElementById("suggestions");
      const form = document.getElementById("composer");
      const input = document.getElementById("input");
      const sendBtn = document.getElementById("send");
      const urlEl = document.getElementById("preview-url");
      const frame = document.getElementById("preview");

      function bubble(role, text) {
        const el = document.createElement("div");
        el.className = "msg " + role;
        el.textContent = text;
        return el;
      }

      function render() {
        transcriptEl.replaceChildren();
        if (state.transcript.length === 0) {
          transcriptEl.appendChild(emptyEl);
        }
        for (const entry of state.transcript) {
          transcriptEl.appendChild(bubble(entry.role, entry.text));
        }
        if (state.inFlight) {
          transcriptEl.appendChild(bubble("assistant", theme.loadingText));
        }
        transcriptEl.scrollTop = transcriptEl.scrollHeight;

        suggestionsEl.style.display = state.session ? "none" : "";
        sendBtn.disabled = state.inFlight || input.value.trim() === "";

        const url = state.session ? state.session.demo : "";
        urlEl.value = url;
        if (url && frame.getAttribute("src") !== url) {
          frame.setAttribute("src", url);
        }
      }

      async function send(text) {
        const message = text.trim();
        if (!message || state.inFlight) {
          return;
        }

        state.transcript.push({ role: "user", text: message });
        state.inFlight = true;
        input.value = "";
        render();

        try {
          const response = await fetch("/api/chat", {
            method: "POST",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify({ message: message, chatId: state.session ? state.session.id : undefined }),
          });
          if (!response.ok) {
            throw new Error("request failed with status " + response.status);
          }
          state.session = await response.json();
          state.transcript.push({ role: "assistant", text: theme.successText });
        } catch (err) {
          console.error(err);
          state.transcript.push({ role: "assistant", text: theme.failureText });
        } finally {
          state.inFlight = false;
          render();
        }
      }

      form.addEventListener("submit", function (e) {
        e.preventDefault();
        send(input.value);
      });
      input.addEventListener("input", render);
      suggestionsEl.addEventListener("click", function (e) {
        const value = e.target.getAttribute("data-suggestion");
        if (value) {
          input.value = value;
          render();
        }
      });

      render();
    })();
    </script>
  </body>
</html>`))
